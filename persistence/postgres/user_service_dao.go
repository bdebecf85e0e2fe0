package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chad-area/area/model"
	"github.com/chad-area/area/persistence"
)

var _ persistence.UserServiceDao = new(UserServiceDao)

type UserServiceDao struct {
	db *sql.DB
}

func NewUserServiceDao(db *sql.DB) *UserServiceDao {
	return &UserServiceDao{db: db}
}

// FindFirst orders by the serial primary key so that under duplicate
// (user_id, service_id) rows the oldest grant wins, deterministically.
func (d *UserServiceDao) FindFirst(ctx context.Context, userId string, serviceId int) (*model.UserService, error) {
	var us model.UserService
	var refreshToken sql.NullString
	err := d.db.QueryRowContext(ctx, `
		select user_id, service_id, token, refresh_token
		from user_services where user_id=$1 and service_id=$2
		order by id limit 1
	`, userId, serviceId).Scan(&us.UserId, &us.ServiceId, &us.Token, &refreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	us.RefreshToken = refreshToken.String
	return &us, nil
}
