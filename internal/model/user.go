package model

// User represents a registrant as stored in the `usuario` table.  Each
// field corresponds to a column; nullable columns are pointers so that an
// unset value survives the round trip.  There are no json tags: handlers
// expose users only through role-filtered views, and PasswordHash must
// never reach a response.
//
// Fields:
//  DocumentID   – usuario.iddocumento, unique login key.
//  RoleCode     – usuario.idtipousuario, see Classify.
//  PasswordHash – usuario.contrasenausuario, bcrypt digest.
type User struct {
    DocumentID      string   // usuario.iddocumento
    RoleCode        *int     // usuario.idtipousuario
    BodyTypeID      *int     // usuario.idtipocontextura
    CountryID       *int     // usuario.idpais
    SpecialtyID     *int     // usuario.idespecialidad
    SquadID         *int     // usuario.idescuadra
    DocumentType    *string  // usuario.tipodocumentousuario
    Name            string   // usuario.nombreusuario
    Surname         *string  // usuario.apellidousuario
    Gender          *string  // usuario.generousuario
    Email           string   // usuario.correousuario
    PasswordHash    string   // usuario.contrasenausuario
    Phone           *string  // usuario.telefonousuario
    Address         *string  // usuario.direccionusuario
    Weight          *float64 // usuario.pesousuario
    Power           *float64 // usuario.potenciausuario
    Acceleration    *float64 // usuario.acelaracionusuario
    AvgSpeed        *float64 // usuario.velocidadpromediousuario
    MaxSpeed        *float64 // usuario.velocidadmaximausuario
    RaceTime        *float64 // usuario.tiempociclista
    YearsExperience *int     // usuario.anosexperiencia
    RampGrade       *float64 // usuario.gradorampa
}

// Role is the named permission tier derived from a role code.
type Role string

// Wire names used by the front end.
const (
    RoleMasseur       Role = "Masajista"
    RoleAdministrator Role = "Administrador"
    RoleDirector      Role = "Director"
    RoleCyclist       Role = "Ciclista"
)

// Stored role codes.
const (
    CodeMasseur       = 1
    CodeAdministrator = 2
    CodeDirector      = 3
    CodeCyclist       = 4
)

// Classify maps a stored role code to its Role.  Unknown and unset codes
// are Cyclists; this is never an error.
func Classify(code *int) Role {
    if code == nil {
        return RoleCyclist
    }
    switch *code {
    case CodeMasseur:
        return RoleMasseur
    case CodeAdministrator:
        return RoleAdministrator
    case CodeDirector:
        return RoleDirector
    default:
        return RoleCyclist
    }
}

// Role is a convenience for Classify(u.RoleCode).
func (u User) Role() Role { return Classify(u.RoleCode) }

// Roles lists every Role in code order.
func Roles() []Role {
    return []Role{RoleMasseur, RoleAdministrator, RoleDirector, RoleCyclist}
}
