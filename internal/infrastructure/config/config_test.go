package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knownEnv is every variable the tests touch. withEnv clears them all,
// applies the overrides, and restores the originals on cleanup.
var knownEnv = []string{
	"WMS_APP_NAME",
	"WMS_APP_ENV",
	"WMS_APP_PORT",
	"WMS_DATABASE_HOST",
	"WMS_DATABASE_PORT",
	"WMS_DATABASE_USER",
	"WMS_DATABASE_PASSWORD",
	"WMS_DATABASE_DBNAME",
	"WMS_DATABASE_SSLMODE",
	"WMS_DATABASE_MAX_OPEN_CONNS",
	"WMS_DATABASE_MAX_IDLE_CONNS",
	"WMS_JWT_SECRET",
	"WMS_SWAGGER_ENABLED",
	"WMS_SWAGGER_REQUIRE_AUTH",
	"WMS_TELEMETRY_SAMPLING_RATIO",
}

func withEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	saved := make(map[string]string, len(knownEnv))
	for _, key := range knownEnv {
		if val, ok := os.LookupEnv(key); ok {
			saved[key] = val
		}
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range knownEnv {
			if val, ok := saved[key]; ok {
				os.Setenv(key, val)
			} else {
				os.Unsetenv(key)
			}
		}
	})
	for key, val := range overrides {
		os.Setenv(key, val)
	}
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wms-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "wms", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Equal(t, "0 2 * * *", cfg.Scheduler.DailyCronSchedule)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)

	// secure defaults: no cross-origin access until configured
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 5, cfg.HTTP.AuthRateLimitRequests)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	withEnv(t, map[string]string{
		"WMS_APP_NAME":                "wms-bodega-norte",
		"WMS_APP_ENV":                 "testing",
		"WMS_APP_PORT":                "9000",
		"WMS_DATABASE_HOST":           "db.bodega.local",
		"WMS_DATABASE_PORT":           "5433",
		"WMS_DATABASE_USER":           "almacen",
		"WMS_DATABASE_PASSWORD":       "contrasena-segura",
		"WMS_DATABASE_DBNAME":         "inventario",
		"WMS_DATABASE_SSLMODE":        "require",
		"WMS_DATABASE_MAX_OPEN_CONNS": "50",
		"WMS_DATABASE_MAX_IDLE_CONNS": "10",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wms-bodega-norte", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.bodega.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "almacen", cfg.Database.User)
	assert.Equal(t, "contrasena-segura", cfg.Database.Password)
	assert.Equal(t, "inventario", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadPoolValidation(t *testing.T) {
	t.Run("idle conns may not exceed open conns", func(t *testing.T) {
		withEnv(t, map[string]string{
			"WMS_DATABASE_MAX_OPEN_CONNS": "10",
			"WMS_DATABASE_MAX_IDLE_CONNS": "20",
		})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("explicit zero open conns is rejected", func(t *testing.T) {
		withEnv(t, map[string]string{"WMS_DATABASE_MAX_OPEN_CONNS": "0"})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_open_conns must be positive")
	})

	t.Run("negative idle conns is rejected", func(t *testing.T) {
		withEnv(t, map[string]string{"WMS_DATABASE_MAX_IDLE_CONNS": "-1"})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoadSamplingRatioValidation(t *testing.T) {
	withEnv(t, map[string]string{"WMS_TELEMETRY_SAMPLING_RATIO": "1.5"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling_ratio")
}

func TestLoadProductionValidation(t *testing.T) {
	productionBase := map[string]string{
		"WMS_APP_ENV":           "production",
		"WMS_JWT_SECRET":        "clave-de-produccion-con-mas-de-32-caracteres",
		"WMS_DATABASE_PASSWORD": "contrasena-segura",
		"WMS_DATABASE_SSLMODE":  "require",
		"WMS_SWAGGER_ENABLED":   "false",
	}

	production := func(mutate func(map[string]string)) map[string]string {
		env := make(map[string]string, len(productionBase))
		for k, v := range productionBase {
			env[k] = v
		}
		if mutate != nil {
			mutate(env)
		}
		return env
	}

	t.Run("a complete production config passes", func(t *testing.T) {
		withEnv(t, production(nil))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{
			"missing jwt secret",
			func(env map[string]string) { delete(env, "WMS_JWT_SECRET") },
			"jwt.secret is required in production",
		},
		{
			"short jwt secret",
			func(env map[string]string) { env["WMS_JWT_SECRET"] = "demasiado-corta" },
			"jwt.secret must be at least 32 characters",
		},
		{
			"missing database password",
			func(env map[string]string) { delete(env, "WMS_DATABASE_PASSWORD") },
			"database.password is required in production",
		},
		{
			"ssl disabled",
			func(env map[string]string) { env["WMS_DATABASE_SSLMODE"] = "disable" },
			"database.sslmode cannot be 'disable' in production",
		},
		{
			"unprotected swagger",
			func(env map[string]string) {
				env["WMS_SWAGGER_ENABLED"] = "true"
				env["WMS_SWAGGER_REQUIRE_AUTH"] = "false"
			},
			"swagger endpoint must be disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, production(tt.mutate))

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("swagger behind auth passes", func(t *testing.T) {
		withEnv(t, production(func(env map[string]string) {
			env["WMS_SWAGGER_ENABLED"] = "true"
			env["WMS_SWAGGER_REQUIRE_AUTH"] = "true"
		}))

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	base := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "almacen",
		DBName:  "inventario",
		SSLMode: "disable",
	}

	t.Run("carries host, database, and sslmode", func(t *testing.T) {
		cfg := base
		cfg.Password = "contrasena"

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "/inventario")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes reserved characters in the password", func(t *testing.T) {
		cfg := base
		cfg.Password = "pass@word#123"

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("empty password still produces a URL", func(t *testing.T) {
		assert.NotEmpty(t, base.DSN())
	})
}
