package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

type userRepo struct {
	db DBTX
}

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, is_staff, is_superuser`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Phone, &u.Staff, &u.Superuser)
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (r *userRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.FirstName, &u.LastName, &u.Phone, &u.Staff, &u.Superuser); err != nil {
			return nil, translateErr(err)
		}
		out = append(out, u)
	}
	return out, translateErr(rows.Err())
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, phone, is_staff, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Phone, u.Staff, u.Superuser)
	return translateErr(row.Scan(&u.ID))
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET username = $2, email = $3, password_hash = $4, first_name = $5,
		     last_name = $6, phone = $7, is_staff = $8, is_superuser = $9
		 WHERE id = $1`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Phone, u.Staff, u.Superuser)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *userRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM users WHERE lower(username) = lower($1) AND id <> $2
		 )`, username, excludeID).Scan(&taken)
	return taken, translateErr(err)
}

func (r *userRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2
		 )`, email, excludeID).Scan(&taken)
	return taken, translateErr(err)
}

type addressRepo struct {
	db DBTX
}

const addressColumns = `id, user_id, street, number, city, zipcode, lat, long`

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.Number, &a.City,
		&a.Zipcode, &a.Geolocation.Lat, &a.Geolocation.Long)
	if err != nil {
		return nil, translateErr(err)
	}
	return &a, nil
}

func (r *addressRepo) Get(ctx context.Context, id int64) (*domain.Address, error) {
	return scanAddress(r.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
}

func (r *addressRepo) GetForUser(ctx context.Context, userID, id int64) (*domain.Address, error) {
	return scanAddress(r.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (r *addressRepo) ListForUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.Address, 0)
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Street, &a.Number, &a.City,
			&a.Zipcode, &a.Geolocation.Lat, &a.Geolocation.Long); err != nil {
			return nil, translateErr(err)
		}
		out = append(out, a)
	}
	return out, translateErr(rows.Err())
}

func (r *addressRepo) Create(ctx context.Context, a *domain.Address) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO addresses (user_id, street, number, city, zipcode, lat, long)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		a.UserID, a.Street, a.Number, a.City, a.Zipcode,
		a.Geolocation.Lat, a.Geolocation.Long)
	return translateErr(row.Scan(&a.ID))
}

func (r *addressRepo) Update(ctx context.Context, a *domain.Address) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE addresses
		 SET street = $2, number = $3, city = $4, zipcode = $5, lat = $6, long = $7
		 WHERE id = $1`,
		a.ID, a.Street, a.Number, a.City, a.Zipcode,
		a.Geolocation.Lat, a.Geolocation.Long)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *addressRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

type sessionRepo struct {
	db DBTX
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRow(ctx,
		`SELECT id, token, user_id, expires_at FROM sessions WHERE token = $1`, token).
		Scan(&s.ID, &s.Token, &s.UserID, &s.ExpiresAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &s, nil
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.Session) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO sessions (token, user_id, expires_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		s.Token, s.UserID, s.ExpiresAt)
	return translateErr(row.Scan(&s.ID))
}

func (r *sessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return translateErr(err)
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, translateErr(err)
	}
	return tag.RowsAffected(), nil
}
