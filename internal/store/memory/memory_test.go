package memory

import (
	"testing"

	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/store/storetest"
)

func TestRepo_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		return New()
	})
}
