package owners

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Config is the persisted form of a Registry.
type Config struct {
	Owners    []treasury.Address `json:"owners"`
	Threshold uint32             `json:"threshold"`
}

var _ orm.Model = (*Config)(nil)

// Validate ensures the owner set can form a quorum.
func (c *Config) Validate() error {
	if len(c.Owners) == 0 {
		return errors.Wrap(errors.ErrInvalidConfiguration, "no owners")
	}
	if c.Threshold == 0 {
		return errors.Wrap(errors.ErrInvalidConfiguration, "threshold must be greater than 0")
	}
	if int(c.Threshold) > len(c.Owners) {
		return errors.Wrapf(errors.ErrInvalidConfiguration,
			"threshold %d exceeds %d owners", c.Threshold, len(c.Owners))
	}
	seen := make(map[string]struct{}, len(c.Owners))
	for i, o := range c.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(errors.ErrInvalidConfiguration, "owner %d: %s", i, err)
		}
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(errors.ErrInvalidConfiguration, "duplicated owner %s", o)
		}
		seen[string(o)] = struct{}{}
	}
	return nil
}

// Registry answers membership questions about the owner set. It never
// changes once created.
type Registry struct {
	owners    []treasury.Address
	members   map[string]struct{}
	threshold uint32
}

// NewRegistry validates the owner list and threshold. It fails with
// ErrInvalidConfiguration if the threshold is 0 or greater than the number of
// owners, or if any owner is invalid, zero or repeated.
func NewRegistry(owners []treasury.Address, threshold uint32) (*Registry, error) {
	conf := Config{Owners: owners, Threshold: threshold}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		owners:    make([]treasury.Address, len(owners)),
		members:   make(map[string]struct{}, len(owners)),
		threshold: threshold,
	}
	for i, o := range owners {
		r.owners[i] = o.Clone()
		r.members[string(o)] = struct{}{}
	}
	return r, nil
}

// IsOwner returns true if addr belongs to the owner set.
func (r *Registry) IsOwner(addr treasury.Address) bool {
	_, ok := r.members[string(addr)]
	return ok
}

// RequireOwner is the capability check run at the start of every owner only
// operation.
func (r *Registry) RequireOwner(addr treasury.Address) error {
	if !r.IsOwner(addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", addr)
	}
	return nil
}

// Owners returns a copy of the owner list, in registration order.
func (r *Registry) Owners() []treasury.Address {
	res := make([]treasury.Address, len(r.owners))
	for i, o := range r.owners {
		res[i] = o.Clone()
	}
	return res
}

// Threshold returns the configured approval threshold.
func (r *Registry) Threshold() uint32 {
	return r.threshold
}

// Config returns the persisted form of this registry.
func (r *Registry) Config() Config {
	return Config{Owners: r.Owners(), Threshold: r.threshold}
}

var registry = orm.NewSingleton("owners")

// Save writes the registry to the store. It refuses to overwrite an
// existing one, as the owner set is fixed for the lifetime of the wallet.
func Save(db treasury.KVStore, r *Registry) error {
	exists, err := registry.Exists(db)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrap(errors.ErrImmutable, "owner registry already initialized")
	}
	conf := r.Config()
	return registry.Save(db, &conf)
}

// Load reads the registry from the store and validates it again.
func Load(db treasury.ReadOnlyKVStore) (*Registry, error) {
	var conf Config
	if err := registry.Load(db, &conf); err != nil {
		return nil, errors.Wrap(err, "owner registry")
	}
	return NewRegistry(conf.Owners, conf.Threshold)
}
