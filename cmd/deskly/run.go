package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/viant/deskly"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/runtime/run"
)

// RunCmd drives a single support case through the pipeline and prints the
// final payload together with the execution log.
type RunCmd struct {
	InputFile string `short:"i" long:"input" description:"JSON file with the case payload (stdin if empty)"`
	ConfigURL string `short:"f" long:"config" description:"configuration document URL"`
	RoutesURL string `long:"routes" description:"route sheet URL"`
	Score     *int   `long:"score" description:"override the built-in solution evaluation score"`
	Threshold *int   `long:"threshold" description:"override the escalation threshold"`
	Verbose   bool   `short:"v" long:"verbose" description:"print a state diff after every stage"`
}

func (r *RunCmd) Execute(_ []string) error {
	var reader io.Reader = os.Stdin
	if r.InputFile != "" {
		file, err := os.Open(r.InputFile)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		reader = file
	}
	payload := &model.Payload{}
	if err := json.NewDecoder(reader).Decode(payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	options := []deskly.Option{deskly.WithVerbose(r.Verbose)}
	if r.ConfigURL != "" {
		options = append(options, deskly.WithConfigURL(r.ConfigURL))
	}
	if r.RoutesURL != "" {
		options = append(options, deskly.WithRoutesURL(r.RoutesURL))
	}
	if r.Score != nil {
		options = append(options, deskly.WithSolutionScore(*r.Score))
	}
	if r.Threshold != nil {
		options = append(options, deskly.WithThreshold(*r.Threshold))
	}

	ctx := context.Background()
	svc, err := deskly.New(ctx, options...)
	if err != nil {
		return err
	}
	output, err := svc.Runtime().RunCase(ctx, payload)
	if err != nil {
		return err
	}
	return printOutput(output)
}

func printOutput(output *run.Output) error {
	data, err := json.MarshalIndent(output.Final, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	fmt.Printf("Stages Completed: %d/%d\n", len(output.State.CompletedStages), model.StageCount())
	fmt.Println("Execution log:")
	for _, entry := range output.State.Log {
		fmt.Printf("  %s\n", entry)
	}
	return nil
}
