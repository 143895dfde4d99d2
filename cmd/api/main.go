// Command api serves the purchasing hub REST API without the operator CLI.
package main

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/purchasehub/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
