package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
	runfs "github.com/viant/deskly/service/dao/run/fs"
	runsqlite "github.com/viant/deskly/service/dao/run/sqlite"
)

// HistoryCmd lists runs kept in a persistent run store.
type HistoryCmd struct {
	Store   string `long:"store" description:"run store vendor" choice:"fs" choice:"sqlite" default:"fs"`
	BaseURL string `long:"base" description:"store base location" default:"/tmp/deskly/runs"`
	Status  string `short:"s" long:"status" description:"filter by status: pending | running | completed | failed"`
}

func (h *HistoryCmd) Execute(_ []string) error {
	store, err := h.open()
	if err != nil {
		return err
	}
	var parameters []*dao.Parameter
	if h.Status != "" {
		parameters = append(parameters, dao.NewParameter("Status", h.Status))
	}
	ctx := context.Background()
	runs, err := store.List(ctx, parameters...)
	if err != nil {
		return err
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	for _, aRun := range runs {
		line := fmt.Sprintf("%s  ticket=%s  status=%s  created=%s",
			aRun.ID, aRun.TicketID, aRun.GetStatus(), aRun.CreatedAt.Format("2006-01-02 15:04:05"))
		if aRun.Error != "" {
			line += "  error=" + aRun.Error
		}
		fmt.Println(line)
	}
	fmt.Printf("%d run(s)\n", len(runs))
	return nil
}

func (h *HistoryCmd) open() (dao.Service[string, run.Run], error) {
	switch h.Store {
	case "sqlite":
		return runsqlite.New(h.BaseURL)
	default:
		return runfs.New(h.BaseURL)
	}
}
