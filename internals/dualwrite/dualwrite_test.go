package dualwrite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllStepsSucceed(t *testing.T) {
	var order []string

	err := New().
		Then(Step{
			Name: "mongo",
			Do:   func(context.Context) error { order = append(order, "mongo"); return nil },
			Compensate: func(context.Context) error {
				order = append(order, "undo-mongo")
				return nil
			},
		}).
		Then(Step{
			Name: "mysql",
			Do:   func(context.Context) error { order = append(order, "mysql"); return nil },
		}).
		Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"mongo", "mysql"}, order)
}

func TestRunSecondStepFailureCompensatesFirst(t *testing.T) {
	boom := errors.New("ER_DUP_ENTRY: Duplicate entry 'a@x.com'")
	var compensated bool

	err := New().
		Then(Step{
			Name:       "mongo",
			Do:         func(context.Context) error { return nil },
			Compensate: func(context.Context) error { compensated = true; return nil },
		}).
		Then(Step{
			Name: "mysql",
			Do:   func(context.Context) error { return boom },
		}).
		Run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.True(t, compensated, "primary-store write must be rolled back when the mirror insert fails")
}

func TestRunFirstStepFailureHasNothingToCompensate(t *testing.T) {
	boom := errors.New("mongo down")
	var secondRan, compensated bool

	err := New().
		Then(Step{
			Name:       "mongo",
			Do:         func(context.Context) error { return boom },
			Compensate: func(context.Context) error { compensated = true; return nil },
		}).
		Then(Step{
			Name: "mysql",
			Do:   func(context.Context) error { secondRan = true; return nil },
		}).
		Run(context.Background())

	require.ErrorIs(t, err, boom)
	assert.False(t, secondRan)
	assert.False(t, compensated)
}

func TestRunCompensationErrorIsSwallowed(t *testing.T) {
	boom := errors.New("mysql down")

	err := New().
		Then(Step{
			Name:       "mongo",
			Do:         func(context.Context) error { return nil },
			Compensate: func(context.Context) error { return errors.New("undo failed too") },
		}).
		Then(Step{
			Name: "mysql",
			Do:   func(context.Context) error { return boom },
		}).
		Run(context.Background())

	// the caller sees the original failure, not the undo failure
	require.ErrorIs(t, err, boom)
}
