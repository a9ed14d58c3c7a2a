package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecord_FlattensContact(t *testing.T) {
	in := map[string]interface{}{
		"name":  "Jane",
		"email": "kept@example.com",
		"contact": map[string]interface{}{
			"email":    "ignored@example.com",
			"phone":    "555-0100",
			"linkedin": "linkedin.com/in/jane",
			"github":   "",
		},
	}

	out := NormalizeRecord(in)

	assert.Equal(t, "kept@example.com", out["email"])
	assert.Equal(t, "555-0100", out["phone"])
	assert.Equal(t, "linkedin.com/in/jane", out["linkedin"])
	assert.NotContains(t, out, "github")
	assert.NotContains(t, in, "phone", "input must not be modified")
}

func TestNormalizeRecord_Education(t *testing.T) {
	in := map[string]interface{}{
		"education": []interface{}{
			map[string]interface{}{"school": "State University", "city": "Austin", "state": "TX"},
			map[string]interface{}{"institution": "Tech", "school": "Other", "location": "Remote", "city": "X"},
			map[string]interface{}{"school": "College", "state": "CA"},
			"not a map",
		},
	}

	out := NormalizeRecord(in)
	edu, ok := out["education"].([]interface{})
	require.True(t, ok)
	require.Len(t, edu, 4)

	first := edu[0].(map[string]interface{})
	assert.Equal(t, "State University", first["institution"])
	assert.Equal(t, "Austin, TX", first["location"])

	second := edu[1].(map[string]interface{})
	assert.Equal(t, "Tech", second["institution"])
	assert.Equal(t, "Remote", second["location"])

	third := edu[2].(map[string]interface{})
	assert.Equal(t, "CA", third["location"])

	assert.Equal(t, "not a map", edu[3])

	orig := in["education"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, orig, "institution")
}

func TestNormalizeRecord_Nil(t *testing.T) {
	out := NormalizeRecord(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}
