// Command selftest exercises a running API end to end and exits non-zero if
// any check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ehsas/internal/config"
	"ehsas/internal/selftest"
)

func main() {
	cfg := config.Load()

	base := flag.String("base-url", "http://localhost:"+cfg.HTTPPort, "API base URL")
	email := flag.String("admin-email", cfg.AdminEmail, "administrator email")
	password := flag.String("admin-password", cfg.AdminPassword, "administrator password")
	batch := flag.Int("batch", 2019, "graduation year for the test registration")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "admin credentials required (-admin-email/-admin-password or ADMIN_EMAIL/ADMIN_PASSWORD)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report := selftest.Run(ctx, *base, selftest.Options{
		AdminEmail:    *email,
		AdminPassword: *password,
		Batch:         *batch,
	}, os.Stdout)

	failed := report.Failed()
	fmt.Printf("\n%d checks, %d failed\n", len(report.Results), failed)
	if failed > 0 {
		cancel()
		os.Exit(1)
	}
}
