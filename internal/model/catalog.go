package model

// Squad mirrors a row of the `escuadras` table.
type Squad struct {
    ID   int    `json:"idescuadra"`
    Name string `json:"desescuadra"`
}

// Specialty mirrors a row of the `especialidades` table.
type Specialty struct {
    ID   int    `json:"idespecialidad"`
    Name string `json:"desespecialidad"`
}
