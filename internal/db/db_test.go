package db

import (
	"testing"

	"skate_marketplace/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNMySQL(t *testing.T) {
	dsn, err := DSN(&config.Config{
		DBDriver: "mysql", DBUser: "shop", DBPassword: "secret", DBHost: "db", DBName: "skate",
	})
	require.NoError(t, err)
	assert.Equal(t, "shop:secret@tcp(db:3306)/skate?charset=utf8mb4&parseTime=true&loc=UTC", dsn)
}

func TestDSNPostgres(t *testing.T) {
	dsn, err := DSN(&config.Config{
		DBDriver: "postgres", DBUser: "shop", DBPassword: "secret", DBHost: "db", DBPort: "6543", DBName: "skate",
	})
	require.NoError(t, err)
	assert.Equal(t, "host=db user=shop password=secret dbname=skate port=6543 sslmode=disable TimeZone=UTC", dsn)
}

func TestDSNPrefersDatabaseURL(t *testing.T) {
	dsn, err := DSN(&config.Config{DBDriver: "postgres", DatabaseURL: "postgres://u:p@h/db", DBHost: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", dsn)
}

func TestDSNUnknownDriver(t *testing.T) {
	_, err := DSN(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)

	_, err = Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestDialectorByDriver(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "postgres", DBHost: "db"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "mysql", DBHost: "db"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())
}

func TestModelsCoverEveryTable(t *testing.T) {
	assert.Len(t, Models(), 7)
}

func TestSeedProductsReferenceSeedCategories(t *testing.T) {
	assert.Len(t, seedProducts, 5)
	for _, p := range seedProducts {
		assert.Contains(t, SeedCategories, p.category, p.title)
		assert.NotPanics(t, func() { decimal.RequireFromString(p.price) }, p.title)
	}
}
