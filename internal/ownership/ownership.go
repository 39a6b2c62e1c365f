package ownership

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-observations/internal/logger"
)

// Result is the outcome of an owner-of-record lookup.
// OK is false whenever the account does not expose the capability or the
// lookup failed in any way.
type Result struct {
	Owner common.Address
	OK    bool
}

// Absent is the result of a failed or unsupported lookup
var Absent = Result{}

// Resolver looks up the owner of record of an account.
// Implementations never return errors: every failure mode collapses into Absent.
//
//go:generate mockgen -source=ownership.go -destination=../mocks/ownership.go -package=mocks -mock_names=Resolver=MockOwnerResolver
type Resolver interface {
	OwnerOf(ctx context.Context, account common.Address) Result
}

// ResolverFunc adapts a function into a Resolver
type ResolverFunc func(ctx context.Context, account common.Address) Result

func (f ResolverFunc) OwnerOf(ctx context.Context, account common.Address) Result {
	return f(ctx, account)
}

// Safe wraps a resolver so a panicking implementation is reported as Absent
func Safe(r Resolver) Resolver {
	if r == nil {
		return ResolverFunc(func(context.Context, common.Address) Result { return Absent })
	}
	return ResolverFunc(func(ctx context.Context, account common.Address) (res Result) {
		defer func() {
			if p := recover(); p != nil {
				logger.WarnCtx(ctx, "Owner lookup panicked",
					zap.String("account", account.Hex()),
					zap.Any("panic", p))
				res = Absent
			}
		}()
		res = r.OwnerOf(ctx, account)
		if res.OK && res.Owner == (common.Address{}) {
			return Absent
		}
		return res
	})
}

// First returns the first successful lookup among resolvers, in order
func First(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, account common.Address) Result {
		for _, r := range resolvers {
			if res := Safe(r).OwnerOf(ctx, account); res.OK {
				return res
			}
		}
		return Absent
	})
}

// Registry is an in-memory owner-of-record table
type Registry struct {
	mu     sync.RWMutex
	owners map[common.Address]common.Address
}

// NewRegistry creates a registry seeded with owners (account -> owner)
func NewRegistry(owners map[common.Address]common.Address) *Registry {
	r := &Registry{owners: make(map[common.Address]common.Address, len(owners))}
	for account, owner := range owners {
		r.owners[account] = owner
	}
	return r
}

// Set records owner as the owner of record of account; the zero owner removes it
func (r *Registry) Set(account, owner common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner == (common.Address{}) {
		delete(r.owners, account)
		return
	}
	r.owners[account] = owner
}

func (r *Registry) OwnerOf(_ context.Context, account common.Address) Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[account]
	if !ok {
		return Absent
	}
	return Result{Owner: owner, OK: true}
}
