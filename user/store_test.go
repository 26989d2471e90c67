package user

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromParams(t *testing.T) {
	u, err := FromParams(map[string]string{
		"userId":   "javajigi",
		"password": "password",
		"name":     "JaeSung",
		"email":    "javajigi@slipp.net",
	})
	require.NoError(t, err)
	require.Equal(t, User{UserID: "javajigi", Password: "password", Name: "JaeSung", Email: "javajigi@slipp.net"}, u)
	require.NotContains(t, u.String(), "password")

	_, err = FromParams(map[string]string{"name": "nobody"})
	require.ErrorIs(t, err, ErrMissingUserID)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.Add(User{UserID: "b", Password: "pb", Name: "Bee"})
	s.Add(User{UserID: "a", Password: "pa", Name: "Ay"})

	require.True(t, s.IsValid("a", "pa"))
	require.False(t, s.IsValid("a", "pb"))
	require.False(t, s.IsValid("c", ""))

	all := s.FindAll()
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].UserID, "registration order is kept")

	s.Add(User{UserID: "b", Password: "new", Name: "Bee2"})
	require.Equal(t, 2, s.Len())
	require.True(t, s.IsValid("b", "new"))

	u, ok := s.Find("b")
	require.True(t, ok)
	require.Equal(t, "Bee2", u.Name)

	all[0].Name = "mutated"
	u, _ = s.Find("b")
	require.Equal(t, "Bee2", u.Name, "FindAll returns a snapshot")
}

func TestMemoryStoreConcurrent(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Add(User{UserID: fmt.Sprintf("user%d", i), Password: "pw"})
		}(i)
		go func(i int) {
			defer wg.Done()
			s.FindAll()
			s.IsValid(fmt.Sprintf("user%d", i), "pw")
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, s.Len())
	for i := 0; i < 50; i++ {
		require.True(t, s.IsValid(fmt.Sprintf("user%d", i), "pw"))
	}
}
