package validator_test

import (
	"testing"

	"github.com/goto/finder/core/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type Nested struct {
		Host string `mapstructure:"host" validate:"required"`
	}
	type DummyStruct struct {
		VarOneOf string `mapstructure:"var_one_of" validate:"omitempty,oneof=type1 type2 type3"`
		VarInt   int    `json:"varint" validate:"omitempty,gte=0"`
		Nested   Nested `mapstructure:"nested"`
	}

	type TestCase struct {
		Description string
		Struct      interface{}
		ErrString   string
	}

	testCases := []TestCase{
		{
			Description: "return error with supported values in oneof type validation",
			Struct: DummyStruct{
				VarOneOf: "random",
				Nested:   Nested{Host: "localhost"},
			},
			ErrString: "error value \"random\" for key \"var_one_of\" not recognized, only support \"type1 type2 type3\"",
		},
		{
			Description: "return error should greater than 0 in integer type validation",
			Struct: DummyStruct{
				VarInt: -1,
				Nested: Nested{Host: "localhost"},
			},
			ErrString: "varint cannot be less than 0",
		},
		{
			Description: "return error for missing nested required field",
			Struct:      DummyStruct{},
			ErrString:   "DummyStruct.nested.host is required",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := validator.ValidateStruct(tc.Struct)
			require.Error(t, err)
			assert.Equal(t, tc.ErrString, err.Error())
		})
	}

	t.Run("return nil for valid struct", func(t *testing.T) {
		assert.NoError(t, validator.ValidateStruct(DummyStruct{VarOneOf: "type2", Nested: Nested{Host: "db"}}))
	})

	t.Run("return error for non struct values", func(t *testing.T) {
		assert.Error(t, validator.ValidateStruct("not a struct"))
	})
}

func TestValidateOneOf(t *testing.T) {
	type TestCase struct {
		Description string
		Value       string
		Enums       []string
		ErrString   string
	}

	testCases := []TestCase{
		{
			Description: "return error with supported values",
			Value:       "random",
			Enums:       []string{"type1", "type2", "type3"},
			ErrString:   "error value \"random\" not recognized, only support \"type1 type2 type3\"",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := validator.ValidateOneOf(tc.Value, tc.Enums...)
			require.Error(t, err)
			assert.Equal(t, tc.ErrString, err.Error())
		})
	}

	t.Run("return nil for empty value", func(t *testing.T) {
		assert.NoError(t, validator.ValidateOneOf("", "type1"))
	})
}
