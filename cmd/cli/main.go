package main

import (
	"fmt"
	"os"

	"github.com/teelane/budget-manager/cmd/cli/auth"
	"github.com/teelane/budget-manager/cmd/cli/expenses"
	"github.com/teelane/budget-manager/cmd/cli/root"
	"github.com/teelane/budget-manager/cmd/cli/users"
)

func main() {
	auth.InitAuth(root.GetRoot())
	users.InitUsers(root.GetRoot())
	expenses.InitExpenses(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
