// Package batch rates many buildings concurrently.
package batch

import (
	"context"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/ber"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 8
	MaxItems           = 1000
)

type Input struct {
	Items       []ber.Request `json:"items"`
	Concurrency int           `json:"concurrency,omitempty"`
}

// ItemResult holds either the rating or the error of one item. Index is the
// position of the item in the request.
type ItemResult struct {
	Index  int         `json:"index"`
	Result *ber.Result `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   string      `json:"kind,omitempty"`
}

type Result struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

// Calculate rates every item. A failing item does not stop the others; only
// cancellation of ctx aborts the batch.
func Calculate(ctx context.Context, calc *ber.Calculator, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, apperr.BadRequest("no items").WithOp("batch")
	}
	if len(in.Items) > MaxItems {
		return Result{}, apperr.BadRequest("too many items").WithOp("batch")
	}
	limit := in.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	out := make([]ItemResult, len(in.Items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range in.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, rf := in.Items[i].Resolve()
			res, err := calc.CalculateBER(b, rf)
			if err != nil {
				out[i] = ItemResult{Index: i, Error: err.Error(), Kind: apperr.GetKind(err).String()}
				return nil
			}
			out[i] = ItemResult{Index: i, Result: &res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Results: out}
	for _, item := range out {
		if item.Error != "" {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	return res, nil
}
