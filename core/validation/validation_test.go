package validation_test

import (
	"errors"
	"testing"

	"document-manager/core/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type section struct {
	Host string `mapstructure:"host" validate:"required"`
	Mode string `mapstructure:"mode" validate:"oneof=a b"`
}

type root struct {
	Broker section `mapstructure:"broker"`
	ID     string  `json:"resultId" validate:"required,uuid"`
}

func TestFieldsUseTagNames(t *testing.T) {
	err := validation.Struct(root{Broker: section{Mode: "c"}, ID: "nope"})
	require.Error(t, err)

	fields := validation.Fields(err)
	assert.ElementsMatch(t, []string{
		"broker.host: required",
		"broker.mode: oneof=a b",
		"resultId: uuid",
	}, fields)
}

func TestFieldsForeignError(t *testing.T) {
	assert.Equal(t, []string{"boom"}, validation.Fields(errors.New("boom")))
	assert.Nil(t, validation.Fields(nil))
}

func TestStructValid(t *testing.T) {
	err := validation.Struct(root{
		Broker: section{Host: "localhost", Mode: "a"},
		ID:     "11111111-1111-1111-1111-111111111111",
	})
	assert.NoError(t, err)
}
