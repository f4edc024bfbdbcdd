package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"

	"github.com/viant/deskly/router"
	"github.com/viant/deskly/service/meta"
)

// RoutesCmd prints the stage ability provider routing table in pipeline order.
type RoutesCmd struct {
	RoutesURL string `long:"routes" description:"route sheet URL (built-in table if empty)"`
	Export    bool   `short:"e" long:"export" description:"emit the table as a route sheet yaml document"`
}

func (r *RoutesCmd) Execute(_ []string) error {
	table := router.DefaultTable()
	if r.RoutesURL != "" {
		loaded, err := meta.New(afs.New(), "").LoadRoutes(context.Background(), r.RoutesURL)
		if err != nil {
			return err
		}
		table = loaded
	}
	if r.Export {
		data, err := meta.RenderRoutes(table)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}
	for _, route := range table.All() {
		ability := route.Ability
		if len(route.Args) > 0 {
			names := make([]string, 0, len(route.Args))
			for _, parameter := range route.Args {
				names = append(names, parameter.Name)
			}
			ability = fmt.Sprintf("%s[%s]", ability, strings.Join(names, ","))
		}
		fmt.Printf("%-10s %-45s -> %s\n", route.Stage, ability, route.Provider)
	}
	return nil
}
