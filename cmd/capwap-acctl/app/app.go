package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	soapserver "github.com/smartcapwap/capwap-ac/internal/acbackend/server/soap"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

type globalOptions struct {
	endpoints []string
	namespace string
	timeout   time.Duration
}

// NewCommand returns the capwap-acctl root command.
func NewCommand() *cobra.Command {
	o := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "capwap-acctl",
		Short:         "Inspect CAPWAP access controller management backends",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	fs := cmd.PersistentFlags()
	fs.StringSliceVarP(&o.endpoints, "endpoint", "e", []string{"http://127.0.0.1:8443"}, "Management endpoint of an AC backend (repeatable).")
	fs.StringVar(&o.namespace, "namespace", options.DefaultNamespace, "XML namespace of the management protocol.")
	fs.DurationVar(&o.timeout, "timeout", 5*time.Second, "Timeout of a single request.")

	cmd.AddCommand(newStatusCommand(o), newPingCommand(o))
	return cmd
}

func newStatusCommand(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backend status of every endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := queryStatus(cmd.Context(), o)
			printStatus(cmd.OutOrStdout(), results)
			return resultsError(results)
		},
	}
}

func newPingCommand(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that every endpoint answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var errs []error
			for _, ep := range o.endpoints {
				ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
				start := time.Now()
				resp, err := soapserver.NewClient(ep, o.namespace, o.timeout).Ping(ctx)
				cancel()
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", ep, err)
					errs = append(errs, fmt.Errorf("%s: %w", ep, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: connected=%t time=%s\n", ep, resp.Connected, time.Since(start).Round(time.Millisecond))
			}
			return utilerrors.NewAggregate(errs)
		},
	}
}

type statusResult struct {
	endpoint string
	status   model.BackendStatus
	err      error
}

// queryStatus asks all endpoints concurrently. Results keep the endpoint order.
func queryStatus(ctx context.Context, o *globalOptions) []statusResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]statusResult, len(o.endpoints))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, ep := range o.endpoints {
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(gctx, o.timeout)
			defer cancel()
			st, err := soapserver.NewClient(ep, o.namespace, o.timeout).GetBackendStatus(reqCtx)
			results[i] = statusResult{endpoint: ep, status: st, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printStatus(w io.Writer, results []statusResult) {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ENDPOINT", "PHASE", "CONNECTED", "GEN", "ADDRESS", "TRANSPORT", "DELIVERED", "FAILED", "LAST ERROR")
	for _, r := range results {
		if r.err != nil {
			table.AddRow(r.endpoint, "Unknown", "-", "-", "-", "-", "-", "-", r.err.Error())
			continue
		}
		st := r.status
		table.AddRow(r.endpoint, st.Phase, strconv.FormatBool(st.Connected), st.Generation, orDash(st.Address),
			orDash(st.Transport), st.Delivered, st.Failed, orDash(st.LastError))
	}
	fmt.Fprintln(w, table)
}

func resultsError(results []statusResult) error {
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.endpoint, r.err))
		}
	}
	return utilerrors.NewAggregate(errs)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
