package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteByID(t *testing.T) {
	site, err := SiteByID("legon-hills")

	require.NoError(t, err)
	assert.Equal(t, "legon_hills", site.TableName)
	assert.Equal(t, "legon_hills_interests", site.InterestTable)
	assert.NotEmpty(t, site.Location)
}

func TestSiteByIDUnknown(t *testing.T) {
	_, err := SiteByID("atlantis")

	assert.Error(t, err)
}

func TestKnownSiteIDsCoversRegistry(t *testing.T) {
	ids := KnownSiteIDs()

	assert.Len(t, ids, 5)
	for _, id := range ids {
		_, err := SiteByID(id)
		assert.NoError(t, err)
	}
}
