package main

import (
	"regexp"
	"strings"

	"github.com/reclutador/staffing-api/internal/database"
	"github.com/reclutador/staffing-api/internal/model"
	"github.com/reclutador/staffing-api/internal/validator"
)

// Validation rules

var _timeOfDayRX = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func validateInsertCandidate(v *validator.Validator, dto database.InsertCandidateDTO) {
	v.CheckField(validator.NotBlank(dto.NationalID), "nationalId", "cannot be blank")
	v.CheckField(validator.MaxRunes(dto.NationalID, 20), "nationalId", "too long")
	v.CheckField(validator.NotBlank(dto.LastName1), "lastName1", "cannot be blank")
	v.CheckField(validator.NotBlank(dto.LastName2), "lastName2", "cannot be blank")
	v.CheckField(validator.NotBlank(dto.FirstNames), "firstNames", "cannot be blank")
}

func validateUpdateCandidate(v *validator.Validator, dto database.UpdateCandidateDTO) {
	if dto.LastName1 != nil {
		v.CheckField(validator.NotBlank(*dto.LastName1), "lastName1", "cannot be blank")
	}
	if dto.LastName2 != nil {
		v.CheckField(validator.NotBlank(*dto.LastName2), "lastName2", "cannot be blank")
	}
	if dto.FirstNames != nil {
		v.CheckField(validator.NotBlank(*dto.FirstNames), "firstNames", "cannot be blank")
	}
}

func validateStatus(v *validator.Validator, status string) {
	v.CheckField(
		model.ValidStatus(status),
		"status",
		"must be one of: "+strings.Join(model.Statuses(), ", "),
	)
}

func validateShiftTimes(v *validator.Validator, name, start, end string) {
	v.CheckField(validator.NotBlank(name), "name", "cannot be blank")
	v.CheckField(validTimeOfDay(start), "start", "must be HH:MM")
	v.CheckField(validTimeOfDay(end), "end", "must be HH:MM")
}

func validTimeOfDay(s string) bool {
	return validator.Matches(s, _timeOfDayRX)
}
