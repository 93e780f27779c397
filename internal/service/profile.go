package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/isuci/isuci-backend/internal/logger"
	"github.com/isuci/isuci-backend/internal/model"
	"github.com/isuci/isuci-backend/internal/repository"
)

// Fallback names used when a user has no squad or specialty on record.
const (
	NoSquad     = "No registra escuadra"
	NoSpecialty = "No registrado en ninguna"
)

// View is the role-filtered projection of a user returned by /perfil.
// It deliberately has no password field.
type View struct {
	RoleCode        *int     `json:"idtipousuario,omitempty"`
	Role            string   `json:"tipousuario,omitempty"`
	Name            *string  `json:"nombreusuario,omitempty"`
	Surname         *string  `json:"apellidousuario,omitempty"`
	DocumentID      *string  `json:"iddocumento,omitempty"`
	DocumentType    *string  `json:"tipodocumentousuario,omitempty"`
	Email           *string  `json:"correousuario,omitempty"`
	Phone           *string  `json:"telefonousuario,omitempty"`
	Address         *string  `json:"direccionusuario,omitempty"`
	CountryID       *int     `json:"idpais,omitempty"`
	SquadID         *int     `json:"idescuadra,omitempty"`
	BodyTypeID      *int     `json:"idtipocontextura,omitempty"`
	SpecialtyID     *int     `json:"idespecialidad,omitempty"`
	Gender          *string  `json:"generousuario,omitempty"`
	Weight          *float64 `json:"pesousuario,omitempty"`
	Power           *float64 `json:"potenciausuario,omitempty"`
	Acceleration    *float64 `json:"acelaracionusuario,omitempty"`
	AvgSpeed        *float64 `json:"velocidadpromediousuario,omitempty"`
	MaxSpeed        *float64 `json:"velocidadmaximausuario,omitempty"`
	RaceTime        *float64 `json:"tiempociclista,omitempty"`
	YearsExperience *int     `json:"anosexperiencia,omitempty"`
	RampGrade       *float64 `json:"gradorampa,omitempty"`
	SquadName       *string  `json:"nombreEscuadra,omitempty"`
	SpecialtyName   *string  `json:"nombreEspecialidad,omitempty"`
	Message         string   `json:"message,omitempty"`
}

// Names carries the resolved lookup-table names for a user.
type Names struct {
	Squad     string
	Specialty string
}

// InvalidRole is the view returned for a role outside the known set.
var InvalidRole = View{Message: "invalid user type"}

// Project returns the attributes of u visible for role r.
//
//	Administrador:         identity and contact fields
//	Masajista, Director:   the above plus squad and experience
//	Ciclista:              everything except the password digest
func Project(u model.User, r model.Role, names Names) View {
	switch r {
	case model.RoleAdministrator:
		return baseView(u, r)
	case model.RoleMasseur, model.RoleDirector:
		v := baseView(u, r)
		v.SquadID = u.SquadID
		v.YearsExperience = u.YearsExperience
		v.SquadName = &names.Squad
		return v
	case model.RoleCyclist:
		v := baseView(u, r)
		v.SquadID = u.SquadID
		v.YearsExperience = u.YearsExperience
		v.SquadName = &names.Squad
		v.DocumentType = u.DocumentType
		v.BodyTypeID = u.BodyTypeID
		v.SpecialtyID = u.SpecialtyID
		v.Gender = u.Gender
		v.Weight = u.Weight
		v.Power = u.Power
		v.Acceleration = u.Acceleration
		v.AvgSpeed = u.AvgSpeed
		v.MaxSpeed = u.MaxSpeed
		v.RaceTime = u.RaceTime
		v.RampGrade = u.RampGrade
		v.SpecialtyName = &names.Specialty
		return v
	default:
		return InvalidRole
	}
}

func baseView(u model.User, r model.Role) View {
	return View{
		RoleCode:   u.RoleCode,
		Role:       string(r),
		Name:       &u.Name,
		Surname:    u.Surname,
		DocumentID: &u.DocumentID,
		Email:      &u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		CountryID:  u.CountryID,
	}
}

// CatalogLookup resolves squad and specialty ids to names.
type CatalogLookup interface {
	SquadName(ctx context.Context, id int) (string, error)
	SpecialtyName(ctx context.Context, id int) (string, error)
}

// Profiles serves /perfil lookups.
type Profiles struct {
	users   UserStore
	catalog CatalogLookup
}

func NewProfiles(users UserStore, catalog CatalogLookup) *Profiles {
	return &Profiles{users: users, catalog: catalog}
}

// Get returns the profile of documentID as seen by its own role.  caller
// is the document id proven by the request's access token; a caller may
// only read their own profile.
func (p *Profiles) Get(ctx context.Context, caller, documentID string) (View, error) {
	if caller == "" {
		return View{}, ErrUnauthenticated
	}
	if caller != documentID {
		return View{}, ErrForbidden
	}
	u, err := p.users.GetByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrTimeout) {
			return View{}, err
		}
		return View{}, fmt.Errorf("%w: load profile: %w", ErrInternal, err)
	}
	role := u.Role()
	return Project(u, role, p.names(ctx, u, role)), nil
}

// names resolves only what the role's view shows.  Lookup failures fall
// back to the "none" names and never fail the profile.
func (p *Profiles) names(ctx context.Context, u model.User, r model.Role) Names {
	n := Names{Squad: NoSquad, Specialty: NoSpecialty}
	if r == model.RoleAdministrator || p.catalog == nil {
		return n
	}
	log := logger.FromContext(ctx)
	if u.SquadID != nil {
		name, err := p.catalog.SquadName(ctx, *u.SquadID)
		switch {
		case err == nil:
			n.Squad = name
		case !errors.Is(err, repository.ErrNotFound):
			log.Warn("squad lookup failed", "idescuadra", *u.SquadID, "err", err)
		}
	}
	if r == model.RoleCyclist && u.SpecialtyID != nil {
		name, err := p.catalog.SpecialtyName(ctx, *u.SpecialtyID)
		switch {
		case err == nil:
			n.Specialty = name
		case !errors.Is(err, repository.ErrNotFound):
			log.Warn("specialty lookup failed", "idespecialidad", *u.SpecialtyID, "err", err)
		}
	}
	return n
}
