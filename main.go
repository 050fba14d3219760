package main

import (
	"fmt"
	"os"

	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/reconcile"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/retro"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/root"
	"github.com/dssolutions-mx/financial-dashboard-sub000/cmd/validate"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(hierarchy.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(retro.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
