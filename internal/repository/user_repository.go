package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isuci/isuci-backend/internal/database"
	"github.com/isuci/isuci-backend/internal/model"
	"github.com/isuci/isuci-backend/internal/utils"
)

// UserRepo reads and writes the `usuario` table.
type UserRepo struct {
	DB     *sql.DB
	Driver string
}

func NewUserRepo(db *sql.DB, driver string) *UserRepo { return &UserRepo{DB: db, Driver: driver} }

const userColumns = `iddocumento, idtipousuario, idtipocontextura, idpais, idespecialidad, idescuadra,
	tipodocumentousuario, nombreusuario, apellidousuario, generousuario, correousuario,
	contrasenausuario, telefonousuario, direccionusuario, pesousuario, potenciausuario,
	acelaracionusuario, velocidadpromediousuario, velocidadmaximausuario, tiempociclista,
	anosexperiencia, gradorampa`

func (r *UserRepo) q(query string) string { return database.Rebind(r.Driver, query) }

// GetByDocument fetches a user by document id.  A missing row yields
// ErrNotFound.
func (r *UserRepo) GetByDocument(ctx context.Context, documentID string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		r.q("SELECT "+userColumns+" FROM usuario WHERE iddocumento=? LIMIT 1"),
		documentID).Scan(
		&u.DocumentID, &u.RoleCode, &u.BodyTypeID, &u.CountryID, &u.SpecialtyID, &u.SquadID,
		&u.DocumentType, &u.Name, &u.Surname, &u.Gender, &u.Email,
		&u.PasswordHash, &u.Phone, &u.Address, &u.Weight, &u.Power,
		&u.Acceleration, &u.AvgSpeed, &u.MaxSpeed, &u.RaceTime,
		&u.YearsExperience, &u.RampGrade,
	)
	if err != nil {
		return model.User{}, storeErr(err)
	}
	return u, nil
}

// Create inserts u.  PasswordHash must already be a digest.  A document id
// collision yields ErrDuplicateIdentifier.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		r.q("INSERT INTO usuario ("+userColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"),
		u.DocumentID, u.RoleCode, u.BodyTypeID, u.CountryID, u.SpecialtyID, u.SquadID,
		u.DocumentType, u.Name, u.Surname, u.Gender, u.Email,
		u.PasswordHash, u.Phone, u.Address, u.Weight, u.Power,
		u.Acceleration, u.AvgSpeed, u.MaxSpeed, u.RaceTime,
		u.YearsExperience, u.RampGrade,
	)
	return storeErr(err)
}

// Now returns the database clock.  It doubles as a connectivity check.
func (r *UserRepo) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := r.DB.QueryRowContext(ctx, "SELECT CURRENT_TIMESTAMP").Scan(&now); err != nil {
		return time.Time{}, storeErr(err)
	}
	return now, nil
}

// RehashLegacyPasswords replaces every stored secret that is not a bcrypt
// digest with hash(secret).  All rows are updated in one transaction: if
// any update fails nothing is persisted.  It returns the number of rows
// rewritten.
func (r *UserRepo) RehashLegacyPasswords(ctx context.Context, hash func(string) (string, error)) (n int, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			n = 0
		}
	}()

	type legacy struct{ id, secret string }
	var pending []legacy

	rows, err := tx.QueryContext(ctx,
		"SELECT iddocumento, contrasenausuario FROM usuario ORDER BY iddocumento FOR UPDATE")
	if err != nil {
		return 0, storeErr(err)
	}
	for rows.Next() {
		var l legacy
		if err = rows.Scan(&l.id, &l.secret); err != nil {
			_ = rows.Close()
			return 0, storeErr(err)
		}
		if !utils.IsHashed(l.secret) {
			pending = append(pending, l)
		}
	}
	// Rows must be closed before the connection can run updates.
	if err = rows.Close(); err != nil {
		return 0, storeErr(err)
	}
	if err = rows.Err(); err != nil {
		return 0, storeErr(err)
	}

	update := r.q("UPDATE usuario SET contrasenausuario=? WHERE iddocumento=?")
	for _, l := range pending {
		var digest string
		if digest, err = hash(l.secret); err != nil {
			return 0, fmt.Errorf("hash %s: %w", l.id, err)
		}
		if _, err = tx.ExecContext(ctx, update, digest, l.id); err != nil {
			return 0, fmt.Errorf("update %s: %w", l.id, storeErr(err))
		}
		n++
	}
	if err = tx.Commit(); err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}
