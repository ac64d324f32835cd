package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sxc/scholarhub/internal/cli"
)

// @title SXC ScholarHub API
// @version 1.0
// @description Academic resource portal: authentication, resource sharing, bookmarks and dashboards.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "scholarhub:", err)
		os.Exit(1)
	}
}
