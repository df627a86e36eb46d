package http

import (
	"strings"
	"time"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/auth"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

// profileRequest is the body of a profile registration or update. Nil
// fields are left untouched by an update.
type profileRequest interface {
	login() credentials
	// missing lists required fields absent from a registration.
	missing() []string
	columns() (map[string]any, error)
	registerInput() (auth.RegisterInput, error)
}

type archaeologistRequest struct {
	credentials
	FirstName         *string `json:"first_name" form:"first_name"`
	LastName          *string `json:"last_name" form:"last_name"`
	DateOfBirth       *string `json:"date_of_birth" form:"date_of_birth"`
	Address           *string `json:"address" form:"address"`
	City              *string `json:"city" form:"city"`
	Postcode          *string `json:"postcode" form:"postcode"`
	HomePhoneNumber   *string `json:"home_phone_number" form:"home_phone_number"`
	MobilePhoneNumber *string `json:"mobile_phone_number" form:"mobile_phone_number"`
	Experience        *string `json:"experience" form:"experience"`
	Specialism        *string `json:"specialism" form:"specialism"`
	CSCSCard          *string `json:"cscs_card" form:"cscs_card"`
	Description       *string `json:"description" form:"description"`
	Thumbnail         *string `json:"thumbnail" form:"thumbnail"`
}

func (r *archaeologistRequest) login() credentials { return r.credentials }

func (r *archaeologistRequest) fields() []field {
	return []field{
		{"first_name", r.FirstName, true},
		{"last_name", r.LastName, true},
		{"date_of_birth", r.DateOfBirth, true},
		{"address", r.Address, true},
		{"city", r.City, true},
		{"postcode", r.Postcode, true},
		{"home_phone_number", r.HomePhoneNumber, true},
		{"mobile_phone_number", r.MobilePhoneNumber, true},
		{"experience", r.Experience, true},
		{"specialism", r.Specialism, true},
		{"cscs_card", r.CSCSCard, true},
		{"description", r.Description, true},
		{"thumbnail", r.Thumbnail, false},
	}
}

func (r *archaeologistRequest) missing() []string {
	return missingFields(r.fields())
}

func (r *archaeologistRequest) columns() (map[string]any, error) {
	cols := columnsOf(r.fields())
	if r.DateOfBirth != nil {
		dob, err := parseDate(*r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		delete(cols, "date_of_birth")
		if dob != nil {
			cols["date_of_birth"] = *dob
		}
	}
	return cols, nil
}

func (r *archaeologistRequest) registerInput() (auth.RegisterInput, error) {
	dob, err := parseDate(deref(r.DateOfBirth))
	if err != nil {
		return auth.RegisterInput{}, err
	}
	return auth.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
		Kind:     entities.AccountKindArchaeologist,
		Archaeologist: &entities.ArchaeologistProfile{
			FirstName:         deref(r.FirstName),
			LastName:          deref(r.LastName),
			DateOfBirth:       dob,
			Address:           deref(r.Address),
			City:              deref(r.City),
			Postcode:          deref(r.Postcode),
			HomePhoneNumber:   deref(r.HomePhoneNumber),
			MobilePhoneNumber: deref(r.MobilePhoneNumber),
			Experience:        deref(r.Experience),
			Specialism:        deref(r.Specialism),
			CSCSCard:          deref(r.CSCSCard),
			Description:       deref(r.Description),
			Thumbnail:         deref(r.Thumbnail),
		},
	}, nil
}

// companyRequest accepts both profile schemas. Version 1 clients send a
// single address, stored as address1.
type companyRequest struct {
	credentials
	SchemaVersion int     `json:"schema_version" form:"schema_version"`
	Name          *string `json:"name" form:"name"`
	Address       *string `json:"address" form:"address"`
	Address1      *string `json:"address1" form:"address1"`
	Address2      *string `json:"address2" form:"address2"`
	Address3      *string `json:"address3" form:"address3"`
	City          *string `json:"city" form:"city"`
	Postcode      *string `json:"postcode" form:"postcode"`
	PhoneNumber   *string `json:"phone_number" form:"phone_number"`
	URL           *string `json:"url" form:"url"`
	Description   *string `json:"description" form:"description"`
	Thumbnail     *string `json:"thumbnail" form:"thumbnail"`
}

func (r *companyRequest) login() credentials { return r.credentials }

func (r *companyRequest) upgrade() {
	if r.Address != nil && (r.Address1 == nil || r.SchemaVersion == entities.ProfileSchemaV1) {
		r.Address1 = r.Address
	}
}

func (r *companyRequest) fields() []field {
	r.upgrade()
	return []field{
		{"name", r.Name, true},
		{"address1", r.Address1, true},
		{"address2", r.Address2, false},
		{"address3", r.Address3, false},
		{"city", r.City, true},
		{"postcode", r.Postcode, true},
		{"phone_number", r.PhoneNumber, true},
		{"url", r.URL, true},
		{"description", r.Description, true},
		{"thumbnail", r.Thumbnail, false},
	}
}

func (r *companyRequest) missing() []string {
	return missingFields(r.fields())
}

func (r *companyRequest) columns() (map[string]any, error) {
	cols := columnsOf(r.fields())
	if len(cols) > 0 {
		cols["schema_version"] = entities.CurrentProfileSchema
	}
	return cols, nil
}

func (r *companyRequest) registerInput() (auth.RegisterInput, error) {
	r.upgrade()
	return auth.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
		Kind:     entities.AccountKindCompany,
		Company: &entities.CompanyProfile{
			SchemaVersion: entities.CurrentProfileSchema,
			Name:          deref(r.Name),
			Address1:      deref(r.Address1),
			Address2:      deref(r.Address2),
			Address3:      deref(r.Address3),
			City:          deref(r.City),
			Postcode:      deref(r.Postcode),
			PhoneNumber:   deref(r.PhoneNumber),
			URL:           deref(r.URL),
			Description:   deref(r.Description),
			Thumbnail:     deref(r.Thumbnail),
		},
	}, nil
}

// excavationRequest is the body of an excavation create or update.
// A single address is accepted as address1, like version 1 profiles.
type excavationRequest struct {
	Name        *string `json:"name" form:"name"`
	Address     *string `json:"address" form:"address"`
	Address1    *string `json:"address1" form:"address1"`
	Address2    *string `json:"address2" form:"address2"`
	Address3    *string `json:"address3" form:"address3"`
	Postcode    *string `json:"postcode" form:"postcode"`
	Duration    *string `json:"duration" form:"duration"`
	URL         *string `json:"url" form:"url"`
	Description *string `json:"description" form:"description"`
	Thumbnail   *string `json:"thumbnail" form:"thumbnail"`
}

func (r *excavationRequest) fields() []field {
	if r.Address1 == nil && r.Address != nil {
		r.Address1 = r.Address
	}
	return []field{
		{"name", r.Name, true},
		{"address1", r.Address1, true},
		{"address2", r.Address2, false},
		{"address3", r.Address3, false},
		{"postcode", r.Postcode, true},
		{"duration", r.Duration, true},
		{"url", r.URL, true},
		{"description", r.Description, false},
		{"thumbnail", r.Thumbnail, false},
	}
}

func (r *excavationRequest) entity() *entities.Excavation {
	r.fields()
	return &entities.Excavation{
		Name:        deref(r.Name),
		Address1:    deref(r.Address1),
		Address2:    deref(r.Address2),
		Address3:    deref(r.Address3),
		Postcode:    deref(r.Postcode),
		Duration:    deref(r.Duration),
		URL:         deref(r.URL),
		Description: deref(r.Description),
		Thumbnail:   deref(r.Thumbnail),
	}
}

type field struct {
	column   string
	value    *string
	required bool
}

func missingFields(fields []field) []string {
	var missing []string
	for _, f := range fields {
		if f.required && strings.TrimSpace(deref(f.value)) == "" {
			missing = append(missing, f.column)
		}
	}
	return missing
}

// columnsOf maps the fields that were sent to their columns. A required
// field may not be blanked by an update.
func columnsOf(fields []field) map[string]any {
	cols := make(map[string]any)
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if f.required && strings.TrimSpace(*f.value) == "" {
			continue
		}
		cols[f.column] = *f.value
	}
	return cols
}

func missingError(missing []string) error {
	return auth.ValidationError("missing required fields: " + strings.Join(missing, ", "))
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, auth.ValidationError("date_of_birth must be a date such as 1990-04-21")
}
