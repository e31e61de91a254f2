package validator

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// StatLetters is the F..S scale used by stand statistics, weakest first.
var StatLetters = []string{"F", "E", "D", "C", "B", "A", "S"}

// IsStatLetter reports whether s is one of StatLetters (case-insensitive).
func IsStatLetter(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, l := range StatLetters {
		if s == l {
			return true
		}
	}
	return false
}

// Register installs the custom tags on gin's validator engine.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("statletter", func(fl validator.FieldLevel) bool {
		return IsStatLetter(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("powertype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "stand", "zanpakuto", "cursed":
			return true
		}
		return false
	})
}

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "statletter":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(StatLetters, ","))
	case "powertype":
		return fmt.Sprintf("%s must be stand, zanpakuto or cursed", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"CharacterID":          "character_id",
		"CampaignID":           "campaign_id",
		"SkillID":              "skill_id",
		"RequestID":            "request_id",
		"IdeaType":             "idea_type",
		"Name":                 "name",
		"Description":          "description",
		"PersonalityTraitIDs":  "personality_trait_ids",
		"SkillIDs":             "skill_ids",
		"UseStatus":            "use_status",
		"Bonus":                "bonus",
		"Reason":               "reason",
		"ResponseMessage":      "response_message",
		"Status":               "status",
		"ItemType":             "item_type",
		"UserID":               "user_id",
		"Username":             "username",
		"Email":                "email",
		"Bio":                  "bio",
		"CampaignType":         "campaign_type",
		"DestructivePower":     "destructive_power",
		"Speed":                "speed",
		"RangeStat":            "range_stat",
		"Stamina":              "stamina",
		"Precision":            "precision",
		"DevelopmentPotential": "development_potential",
		"ToCharacterID":        "to_character_id",
		"Quantity":             "quantity",
		"Amount":               "amount",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
