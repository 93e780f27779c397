package repository

import (
	"context"
	"database/sql"

	"github.com/isuci/isuci-backend/internal/database"
	"github.com/isuci/isuci-backend/internal/model"
)

// CatalogRepo reads the squad and specialty lookup tables.
type CatalogRepo struct {
	db     *sql.DB
	driver string
}

func NewCatalogRepo(db *sql.DB, driver string) *CatalogRepo {
	return &CatalogRepo{db: db, driver: driver}
}

// SquadName returns desescuadra for id, or ErrNotFound.
func (r *CatalogRepo) SquadName(ctx context.Context, id int) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		database.Rebind(r.driver, "SELECT desescuadra FROM escuadras WHERE idescuadra=? LIMIT 1"),
		id).Scan(&name)
	return name, storeErr(err)
}

// SpecialtyName returns desespecialidad for id, or ErrNotFound.
func (r *CatalogRepo) SpecialtyName(ctx context.Context, id int) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		database.Rebind(r.driver, "SELECT desespecialidad FROM especialidades WHERE idespecialidad=? LIMIT 1"),
		id).Scan(&name)
	return name, storeErr(err)
}

// ListSquads returns every squad ordered by id.
func (r *CatalogRepo) ListSquads(ctx context.Context) ([]model.Squad, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT idescuadra, desescuadra FROM escuadras ORDER BY idescuadra")
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	out := []model.Squad{}
	for rows.Next() {
		var s model.Squad
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, s)
	}
	return out, storeErr(rows.Err())
}

// ListSpecialties returns every specialty ordered by id.
func (r *CatalogRepo) ListSpecialties(ctx context.Context) ([]model.Specialty, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT idespecialidad, desespecialidad FROM especialidades ORDER BY idespecialidad")
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	out := []model.Specialty{}
	for rows.Next() {
		var s model.Specialty
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, s)
	}
	return out, storeErr(rows.Err())
}
