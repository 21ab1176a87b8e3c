package user

import (
	"context"

	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/security"
)

// demoPassword 演示账户的统一初始口令。
const demoPassword = "password"

// SeedDemoUsers 启动时注入演示账户，已存在的跳过。
func SeedDemoUsers(ctx context.Context, repo *Repository, logger *logging.Logger) error {
	demos := []struct {
		username string
		email    string
		name     string
		role     Role
	}{
		{"client1", "client1@quantcrux.com", "Client One", RoleClient},
		{"pm1", "pm1@quantcrux.com", "Portfolio Manager One", RolePortfolioManager},
		{"researcher1", "researcher1@quantcrux.com", "Researcher One", RoleResearcher},
	}

	for _, d := range demos {
		exists, err := repo.ExistsByUsername(ctx, d.username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		hash, err := security.HashPassword(demoPassword)
		if err != nil {
			return err
		}

		u := &User{
			Username: d.username,
			Email:    d.email,
			Password: hash,
			Name:     d.name,
			Role:     d.role,
		}
		if err := repo.Create(ctx, u); err != nil {
			return err
		}

		logger.InfoContext(ctx, "created demo user", "username", d.username, "role", d.role)
	}

	return nil
}
