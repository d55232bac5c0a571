package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassification(t *testing.T) {
	t.Run("wrapped not found errors are detected", func(t *testing.T) {
		err := fmt.Errorf("loading product abc: %w", ErrProductNotFound)
		if !IsNotFound(err) {
			t.Error("Expected IsNotFound to be true")
		}
		if IsValidation(err) {
			t.Error("Expected IsValidation to be false")
		}
	})

	t.Run("wrapped validation errors are detected", func(t *testing.T) {
		err := fmt.Errorf("transaction tx-1: %w", ErrInsufficientShares)
		if !IsValidation(err) {
			t.Error("Expected IsValidation to be true")
		}
		if IsNotFound(err) {
			t.Error("Expected IsNotFound to be false")
		}
	})

	t.Run("unrelated errors are neither", func(t *testing.T) {
		err := errors.New("disk full")
		if IsNotFound(err) || IsValidation(err) {
			t.Error("Expected unrelated error to be unclassified")
		}
		if IsNotFound(nil) || IsValidation(nil) {
			t.Error("Expected nil to be unclassified")
		}
	})
}
