package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// messages maps "<Struct>.<Field>.<tag>" to the text shown to the user
var messages = map[string]string{
	"ProfileInput.FirstName.min": "first name must be at least 2 characters",
	"ProfileInput.LastName.min":  "last name must be at least 2 characters",
	"ProfileInput.Username.min":  "username must be at least 2 characters",

	"PropertyInput.Name.min":             "name must be at least 2 characters.",
	"PropertyInput.Name.max":             "name must be less than 100 characters.",
	"PropertyInput.Tagline.min":          "tagline must be at least 2 characters.",
	"PropertyInput.Tagline.max":          "tagline must be less than 100 characters.",
	"PropertyInput.Price.min":            "price must be a positive number.",
	"PropertyInput.Description.minwords": "description must be between 10 and 1000 words.",
	"PropertyInput.Description.maxwords": "description must be between 10 and 1000 words.",
	"PropertyInput.Guests.min":           "guest amount must be a positive number.",
	"PropertyInput.Bedrooms.min":         "bedrooms amount must be a positive number.",
	"PropertyInput.Beds.min":             "beds amount must be a positive number.",
	"PropertyInput.Baths.min":            "baths amount must be a positive number.",
}

func messageFor(structName string, fe validator.FieldError) string {
	if msg, ok := messages[structName+"."+fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed the %s constraint", fe.Field(), fe.Tag())
}
