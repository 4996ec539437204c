package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/miniteen-shop/internal/config"
	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/provider"

	"github.com/spf13/cobra"
)

// activeSetter 按邮箱切换账号状态
type activeSetter func(ctx context.Context, email string, active bool) (*models.User, error)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 容器负责初始化 Redis，停用后缓存的鉴权状态随之失效
	container := provider.NewContainer(cfg)
	defer container.Close()

	root := newRootCommand(container.UserAuthService.SetActiveByEmail, os.Stdout)
	if err := root.Execute(); err != nil {
		container.Close()
		os.Exit(1)
	}
}

func newRootCommand(setActive activeSetter, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "useradmin",
		Short:        "MINITEEN SHOP 账号运维工具",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(
		newActiveCommand("deactivate", "停用账号，已签发的 token 立即失效", false, setActive),
		newActiveCommand("activate", "重新启用账号", true, setActive),
	)
	return root
}

func newActiveCommand(use, short string, active bool, setActive activeSetter) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := setActive(cmd.Context(), email, active)
			if err != nil {
				return fmt.Errorf("%s %s: %w", use, email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s (%s) active=%v\n", user.Email, user.ID, user.IsActive)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "账号邮箱")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
