package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:         "defaults_to_false",
			defaultValue: false,
			arguments:    []string{},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_true_without_value",
			defaultValue: false,
			arguments:    []string{"--count-tokens"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "sets_true_with_shorthand",
			defaultValue: false,
			arguments:    []string{"-t", "./src"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "rejects_unknown_literal_after_equals",
			defaultValue: false,
			arguments:    []string{"--count-tokens=maybe"},
			expected:     false,
			expectError:  true,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--count-tokens=false"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_false_with_no_literal",
			defaultValue: true,
			arguments:    []string{"--count-tokens", "no"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_true_with_on_literal",
			defaultValue: false,
			arguments:    []string{"--count-tokens", "on"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "sets_false_with_shorthand_literal",
			defaultValue: true,
			arguments:    []string{"-t", "off"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "keeps_arguments_after_terminator",
			defaultValue: false,
			arguments:    []string{"--", "--count-tokens", "yes"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "ignores_non_boolean_trailing_value",
			defaultValue: false,
			arguments:    []string{"--count-tokens", "maybe"},
			expected:     true,
			expectError:  false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "summarize"}
			flagSet := command.Flags()
			flagValue := !testCase.defaultValue
			registerBooleanFlag(flagSet, &flagValue, countTokensFlagName, countTokensShorthand, testCase.defaultValue, countTokensFlagDescription)
			normalizedArguments := normalizeBooleanFlagArguments(command, testCase.arguments)
			parseErr := command.ParseFlags(normalizedArguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if len(testCase.arguments) == 0 && flagValue != testCase.defaultValue {
				t.Fatalf("expected default %t, got %t", testCase.defaultValue, flagValue)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsLeavesOtherFlagsAlone(t *testing.T) {
	command := &cobra.Command{Use: "summarize"}
	var countTokens bool
	var model string
	registerBooleanFlag(command.Flags(), &countTokens, countTokensFlagName, countTokensShorthand, false, countTokensFlagDescription)
	command.Flags().StringVar(&model, modelFlagName, "", modelFlagDescription)

	normalized := normalizeBooleanFlagArguments(command, []string{"--model", "yes", "-t", "1", "src"})
	expected := []string{"--model", "yes", "-t=1", "src"}
	if strings.Join(normalized, " ") != strings.Join(expected, " ") {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}
