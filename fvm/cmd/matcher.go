package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fuel-go/fvm/fvm/interpreter"
)

type StepMatcher func(vm *interpreter.Interpreter) bool

// StepMatcherFlag is a cli.Generic selecting steps: "never", "always", "=N" or "%N".
type StepMatcherFlag struct {
	repr    string
	matcher StepMatcher
}

func MustStepMatcherFlag(pattern string) *StepMatcherFlag {
	out := new(StepMatcherFlag)
	if err := out.Set(pattern); err != nil {
		panic(err)
	}
	return out
}

func (m *StepMatcherFlag) Set(value string) error {
	m.repr = value
	switch {
	case value == "" || value == "never":
		m.matcher = func(*interpreter.Interpreter) bool { return false }
	case value == "always":
		m.matcher = func(*interpreter.Interpreter) bool { return true }
	case strings.HasPrefix(value, "="):
		when, err := strconv.ParseUint(value[1:], 0, 64)
		if err != nil {
			return fmt.Errorf("failed to parse step number: %w", err)
		}
		m.matcher = func(vm *interpreter.Interpreter) bool { return vm.Steps() == when }
	case strings.HasPrefix(value, "%"):
		when, err := strconv.ParseUint(value[1:], 0, 64)
		if err != nil {
			return fmt.Errorf("failed to parse step interval: %w", err)
		}
		if when == 0 {
			return fmt.Errorf("step interval must be positive")
		}
		m.matcher = func(vm *interpreter.Interpreter) bool { return vm.Steps()%when == 0 }
	default:
		return fmt.Errorf("unrecognized step matcher: %q", value)
	}
	return nil
}

func (m *StepMatcherFlag) String() string {
	return m.repr
}

func (m *StepMatcherFlag) Matcher() StepMatcher {
	if m.matcher == nil {
		return func(*interpreter.Interpreter) bool { return false }
	}
	return m.matcher
}

func (m *StepMatcherFlag) Clone() any {
	var out StepMatcherFlag
	if err := out.Set(m.repr); err != nil {
		panic(fmt.Errorf("invalid repr: %w", err))
	}
	return &out
}
