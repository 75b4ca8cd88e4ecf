// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/fsop"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes batches of requests
type OperationRunner struct {
	logger *zerolog.Logger
	op     Operator
	async  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, op Operator, async bool) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		op:     op,
		async:  async,
	}
}

// 🏃 Run executes reqs. The first failure stops the batch; requests already
// performed are not undone.
func (r *OperationRunner) Run(ctx context.Context, reqs ...Request) error {
	if r.async {
		return r.runAsync(ctx, reqs)
	}
	return r.runSync(ctx, reqs)
}

// 🔄 runSync runs requests one after another in order
func (r *OperationRunner) runSync(ctx context.Context, reqs []Request) error {
	ctx = r.logger.WithContext(ctx)
	for i, req := range reqs {
		if err := r.perform(ctx, i, req); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs requests that touch unrelated paths concurrently. Requests
// whose paths overlap share a lane and keep their relative order.
func (r *OperationRunner) runAsync(ctx context.Context, reqs []Request) error {
	lanes, err := Lanes(reqs)
	if err != nil {
		return errors.Errorf("planning lanes: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for n, lane := range lanes {
		laneLogger := r.logger.With().Int("lane", n).Logger()
		laneCtx := laneLogger.WithContext(gctx)
		g.Go(func() error {
			for _, i := range lane {
				if err := r.perform(laneCtx, i, reqs[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}
	return nil
}

func (r *OperationRunner) perform(ctx context.Context, i int, req Request) error {
	zerolog.Ctx(ctx).Debug().Int("request", i).Stringer("kind", req.Kind).Str("src", req.Src).Str("dst", req.Dst).Msg("performing request")
	if err := r.op.Perform(ctx, req); err != nil {
		return errors.Errorf("executing %s %s: %w", req.Kind, req.Src, err)
	}
	return nil
}

// 🛣️ Lanes partitions reqs into groups of request indexes such that two
// requests in different groups never touch the same path, an ancestor or a
// descendant of each other's paths. Indexes keep their order inside a group.
func Lanes(reqs []Request) ([][]int, error) {
	parent := make([]int, len(reqs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := range reqs {
		for j := i + 1; j < len(reqs); j++ {
			hit, err := overlaps(reqs[i], reqs[j])
			if err != nil {
				return nil, err
			}
			if hit {
				parent[find(j)] = find(i)
			}
		}
	}

	index := map[int]int{}
	var lanes [][]int
	for i := range reqs {
		root := find(i)
		n, ok := index[root]
		if !ok {
			n = len(lanes)
			index[root] = n
			lanes = append(lanes, nil)
		}
		lanes[n] = append(lanes[n], i)
	}
	return lanes, nil
}

func overlaps(a, b Request) (bool, error) {
	for _, pa := range a.paths() {
		for _, pb := range b.paths() {
			for _, pair := range [][2]string{{pa, pb}, {pb, pa}} {
				inside, err := fsop.Within(pair[0], pair[1])
				if err != nil {
					return false, err
				}
				if inside {
					return true, nil
				}
			}
		}
	}
	return false, nil
}
