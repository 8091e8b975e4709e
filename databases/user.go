package databases

// go generate: mockery --name UserDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailtales/trailtales-api/models"
)

const userName = "users"

// UserDatabase contains the methods to use with the user database.
// Accounts are owned by the auth service; this service only reads them.
type UserDatabase interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindEmailsByRole(ctx context.Context, role string) ([]string, error)
}

type userDatabase struct {
	db DatabaseHelper
}

// NewUserDatabase initializes a new instance of user database with the provided db connection
func NewUserDatabase(db DatabaseHelper) UserDatabase {
	return &userDatabase{
		db: db,
	}
}

func (u *userDatabase) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	user := &models.User{}
	if err := u.db.Collection(userName).FindOne(ctx, bson.M{"_id": oid}).Decode(user); err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// FindEmailsByRole lists the addresses of every account holding role
func (u *userDatabase) FindEmailsByRole(ctx context.Context, role string) ([]string, error) {
	cursor, err := u.db.Collection(userName).Find(ctx, bson.M{"user.roles": role})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.Decode(&users); err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(users))
	for _, usr := range users {
		if usr.Details.Email != "" {
			emails = append(emails, usr.Details.Email)
		}
	}
	return emails, nil
}
