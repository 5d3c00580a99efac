package db

import (
	"testing"

	"github.com/shinyyama/overbid-backend/internal/config"
)

func TestBuildDSN(t *testing.T) {
	base := config.Config{DBUser: "app", DBPassword: "secret", DBName: "overbid", DBPort: "3306"}
	tests := []struct {
		name string
		mod  func(c *config.Config)
		want string
	}{
		{"host and port", func(c *config.Config) { c.DBHost = "10.0.0.5" }, "app:secret@tcp(10.0.0.5:3306)/overbid?charset=utf8mb4&parseTime=True&loc=Local"},
		{"explicit tcp", func(c *config.Config) { c.DBHost = "tcp(db:3307)" }, "app:secret@tcp(db:3307)/overbid?charset=utf8mb4&parseTime=True&loc=Local"},
		{"socket path", func(c *config.Config) { c.DBHost = "/var/run/mysqld.sock" }, "app:secret@unix(/var/run/mysqld.sock)/overbid?charset=utf8mb4&parseTime=True&loc=Local"},
		{"cloud sql", func(c *config.Config) {
			c.DBHost = "ignored"
			c.InstanceConnectionName = "proj:asia:db"
		}, "app:secret@unix(/cloudsql/proj:asia:db)/overbid?charset=utf8mb4&parseTime=True&loc=Local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mod(&cfg)
			if got := BuildDSN(&cfg); got != tt.want {
				t.Fatalf("got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: "file:dbtest?mode=memory&cache=shared"}
	conn, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"collections", "items", "assets", "asset_metadata", "custody_accounts", "wallets", "bids", "redemptions", "transitions"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}
