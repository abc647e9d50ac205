package model

import "time"

type ID = uint

// Candidate lifecycle statuses.
const (
	StatusRevision  = "revision"
	StatusCancelado = "cancelado"
	StatusAprobado  = "aprobado"
)

func Statuses() []string {
	return []string{StatusRevision, StatusCancelado, StatusAprobado}
}

func ValidStatus(s string) bool {
	switch s {
	case StatusRevision, StatusCancelado, StatusAprobado:
		return true
	}
	return false
}

// Document categories, in the order documents are processed and listed.
const (
	CategoryIdentificacion = "identificacion"
	CategoryCertificados   = "certificados"
	CategoryAntecedentes   = "antecedentes"
	CategoryMedico         = "medico"
	CategoryCapacitacion   = "capacitacion"
	CategoryCV             = "cv"
)

func Categories() []string {
	return []string{
		CategoryIdentificacion,
		CategoryCertificados,
		CategoryAntecedentes,
		CategoryMedico,
		CategoryCapacitacion,
		CategoryCV,
	}
}

func ValidCategory(c string) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

type Candidate struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	NationalID string `json:"nationalId" db:"national_id"`
	LastName1  string `json:"lastName1" db:"last_name_1"`
	LastName2  string `json:"lastName2" db:"last_name_2"`
	FirstNames string `json:"firstNames" db:"first_names"`

	Site  *string `json:"site,omitempty" db:"site"`
	Shift *string `json:"shift,omitempty" db:"shift"`
	Grp   *string `json:"grp,omitempty" db:"grp"`

	Status string `json:"status" db:"status"`

	Documents []Document `json:"documents,omitempty" db:"-"`
}

type Employee struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name string  `json:"name" db:"name"`
	Site *string `json:"site,omitempty" db:"site"`
	Grp  *string `json:"grp,omitempty" db:"grp"`

	// Documents holds at most one document per category for the simplified
	// employee reads (oldest per category wins); the full history stays in
	// the documents table.
	Documents map[string]Document `json:"documents,omitempty" db:"-"`
}

type Document struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Owner    ID     `json:"ownerId" db:"owner_id"`
	Category string `json:"category" db:"category"`
	URL      string `json:"url" db:"url"`
}

type Site struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

type Project struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
	Site ID     `json:"siteId" db:"site_id"`
}

type Shift struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name  string `json:"name" db:"name"`
	Start string `json:"start" db:"start_time"`
	End   string `json:"end" db:"end_time"`
}

type Employer struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name    string  `json:"name" db:"name"`
	TaxID   string  `json:"taxId" db:"tax_id"`
	Address *string `json:"address,omitempty" db:"address"`
}

type TaxRegime struct {
	ID          ID     `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	Description string `json:"description" db:"description"`
}

// RegimePeriod is one effective-dated slice of the employer's tax-regime
// history. ValidTo is nil for the period currently in effect.
type RegimePeriod struct {
	ID        ID        `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Employer  ID         `json:"employerId" db:"employer_id"`
	Regime    ID         `json:"regimeId" db:"regime_id"`
	ValidFrom time.Time  `json:"validFrom" db:"valid_from"`
	ValidTo   *time.Time `json:"validTo" db:"valid_to"`

	RegimeCode        string `json:"regimeCode" db:"regime_code"`
	RegimeDescription string `json:"regimeDescription" db:"regime_description"`
}
