// Package planner runs swap requests through the router and hands the
// resulting calldata to the configured sinks: the plan feed and the
// interop fixture file.
package planner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/you/route-planner/internal/config"
	"github.com/you/route-planner/internal/connectors/redisfeed"
	"github.com/you/route-planner/internal/metrics"
	"github.com/you/route-planner/internal/multicall"
	"github.com/you/route-planner/internal/request"
	"github.com/you/route-planner/internal/router"
	"github.com/you/route-planner/internal/routerabi"
	"github.com/you/route-planner/internal/types"
)

type feed interface {
	Publish(ctx context.Context, plan redisfeed.Plan) error
}

type fixtures interface {
	Register(name string, mp multicall.MethodParameters) error
}

type Service struct {
	cfg      *config.Config
	env      request.Env
	router   *router.SwapRouter
	feed     feed
	fixtures fixtures
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Service)

// WithFeed publishes every plan. Publish failures are logged and counted,
// they do not fail the plan.
func WithFeed(f feed) Option { return func(s *Service) { s.feed = f } }

// WithFixtures records every plan under its request name.
func WithFixtures(f fixtures) Option { return func(s *Service) { s.fixtures = f } }

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.env.Now = now
	}
}

func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a, err := routerabi.Load(cfg.Router.ABIPath)
	if err != nil {
		return nil, err
	}
	env, err := request.NewEnv(cfg)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg: cfg,
		env: env,
		router: router.New(router.Config{
			ABI:         a,
			MsgSender:   cfg.MsgSender(),
			AddressThis: cfg.AddressThis(),
		}, log.Named("router")),
		now: time.Now,
		log: log,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Result is the outcome of one request. Err is set when the request could
// not be planned; Params is empty then.
type Result struct {
	Name   string
	Params multicall.MethodParameters
	Shares []router.Share
	Err    error
}

// Plan resolves and encodes one request, then feeds the sinks.
func (s *Service) Plan(ctx context.Context, req *request.Request) (Result, error) {
	res := Result{}
	if req != nil {
		res.Name = req.Name
	}

	start := time.Now()
	mp, shares, err := s.encode(req)
	metrics.EncodeLatency.Observe(time.Since(start).Seconds())
	metrics.Plans.WithLabelValues(types.ErrorClass(err)).Inc()
	if err != nil {
		s.log.Warn("plan rejected",
			zap.String("name", res.Name),
			zap.String("class", types.ErrorClass(err)),
			zap.Error(err),
		)
		res.Err = err
		return res, err
	}
	res.Params, res.Shares = mp, shares

	perProto := map[string]int{}
	for _, sh := range shares {
		perProto[sh.Protocol.String()]++
	}
	for p, n := range perProto {
		metrics.RoutesPerPlan.WithLabelValues(p).Observe(float64(n))
	}
	metrics.CalldataBytes.Observe(float64(len(mp.Calldata)))

	if s.fixtures != nil {
		if err := s.fixtures.Register(res.Name, mp); err != nil {
			res.Err = fmt.Errorf("register fixture %s: %w", res.Name, err)
			return res, res.Err
		}
	}
	if s.feed != nil {
		plan := redisfeed.NewPlan(res.Name, s.cfg.Router.Address, mp, s.now().UnixMilli())
		if err := s.feed.Publish(ctx, plan); err != nil {
			metrics.FeedErrors.Inc()
			s.log.Warn("feed publish failed", zap.String("name", res.Name), zap.Error(err))
		}
	}

	s.log.Info("plan ready",
		zap.String("name", res.Name),
		zap.Int("routes", len(shares)),
		zap.Int("calldata_bytes", len(mp.Calldata)),
		zap.String("value", mp.Value.String()),
	)
	return res, nil
}

func (s *Service) encode(req *request.Request) (multicall.MethodParameters, []router.Share, error) {
	resolved, err := request.Resolve(req, s.env)
	if err != nil {
		return multicall.MethodParameters{}, nil, err
	}
	mp, err := s.router.SwapCallParameters(resolved.Trade, resolved.Options)
	if err != nil {
		return multicall.MethodParameters{}, nil, err
	}
	return mp, resolved.Trade.Shares(), nil
}

// PlanAll plans requests concurrently, at most cfg.Planner.Workers at a
// time. Results keep the order of reqs. The returned error combines every
// failed request; a cancelled ctx stops requests not yet started.
func (s *Service) PlanAll(ctx context.Context, reqs []*request.Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	errs := make([]error, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				name := ""
				if req != nil {
					name = req.Name
				}
				results[i] = Result{Name: name, Err: err}
				errs[i] = err
				return nil
			}
			res, err := s.Plan(gctx, req)
			results[i] = res
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", res.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, multierr.Combine(errs...)
}

func (s *Service) workers() int {
	if s.cfg.Planner.Workers > 0 {
		return s.cfg.Planner.Workers
	}
	return 1
}
