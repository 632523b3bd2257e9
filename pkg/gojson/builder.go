// Package gojson is the surface facade: it wires TypeInfo, ExclusionStrategy,
// HandlerMap and the navigator behind a one-call ToJSON/FromJSON API.
package gojson

import (
	"reflect"

	"github.com/gojson-dev/gojson/pkg/format"
	"github.com/gojson-dev/gojson/pkg/internal/exclusion"
	"github.com/gojson-dev/gojson/pkg/internal/handler"
)

// config accumulates Option values during NewBuilder(...).Build(). It is
// copied into an immutable Serializer at Build time.
type config struct {
	versionCeiling    *float64
	modifierMask      exclusion.Modifier
	formatter         format.Formatter
	naming            NamingStrategy
	includeNullFields bool
	onWarning         func(string)
	handlers          *handler.Map[SerializerFunc, DeserializerFunc, InstanceCreatorFunc]
}

// Option configures a Builder.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithVersion installs a VersionCeiling: fields or classes tagged with a
// greater minimum version are excluded. Default: no ceiling.
func WithVersion(v float64) Option {
	return optionFunc(func(c *config) {
		c.versionCeiling = &v
	})
}

// WithModifierMask replaces the default modifier mask (which excludes only
// `gojson:"transient"` fields; unexported fields are read and included
// unless the caller opts into exclusion.ModifierUnexported here).
func WithModifierMask(mask exclusion.Modifier) Option {
	return optionFunc(func(c *config) {
		c.modifierMask = mask
	})
}

// WithFormatter replaces the default compact-output JSON formatter.
func WithFormatter(f format.Formatter) Option {
	return optionFunc(func(c *config) {
		c.formatter = f
	})
}

// WithNamingStrategy replaces the default field-naming policy (the rename in
// the field's gojson tag, or else its declared name). See SnakeCaseNaming
// for a built-in alternative.
func WithNamingStrategy(n NamingStrategy) Option {
	return optionFunc(func(c *config) {
		c.naming = n
	})
}

// WithIncludeNullFields makes null-valued fields appear in output as an
// explicit JSON null rather than being omitted. Default: off.
func WithIncludeNullFields(include bool) Option {
	return optionFunc(func(c *config) {
		c.includeNullFields = include
	})
}

// WithWarningHandler installs the sink for non-fatal signals such as a
// handler-registry overwrite. Warnings are never routed through the error
// taxonomy.
func WithWarningHandler(fn func(message string)) Option {
	return optionFunc(func(c *config) {
		c.onWarning = fn
	})
}

// RegisterSerializer overrides JSON building for T. Registration is exact:
// it does not cover other instantiations of a generic T.
func RegisterSerializer[T any](fn func(value T, ctx Context) (Node, error)) Option {
	return optionFunc(func(c *config) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		c.handlers.Serializers.RegisterExact(typeInfoOf(t), adaptSerializer[T](fn))
	})
}

// RegisterSerializerForRawType registers fn against T's widened raw key, so
// it becomes the fallback for every exact instantiation sharing that raw
// shape (every slice type, or every instantiation of a generic T) rather
// than one exact type. Consulted only when no exact registration matches.
func RegisterSerializerForRawType[T any](fn func(value T, ctx Context) (Node, error)) Option {
	return optionFunc(func(c *config) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		c.handlers.Serializers.RegisterRaw(typeInfoOf(t), adaptSerializer[T](fn))
	})
}

// RegisterDeserializer overrides JSON parsing for T, symmetric with
// RegisterSerializer.
func RegisterDeserializer[T any](fn func(n Node, ctx Context) (T, error)) Option {
	return optionFunc(func(c *config) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		c.handlers.Deserializers.RegisterExact(typeInfoOf(t), adaptDeserializer[T](fn))
	})
}

// RegisterDeserializerForRawType is the raw-key counterpart of
// RegisterSerializerForRawType, symmetric with RegisterDeserializer.
func RegisterDeserializerForRawType[T any](fn func(n Node, ctx Context) (T, error)) Option {
	return optionFunc(func(c *config) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		c.handlers.Deserializers.RegisterRaw(typeInfoOf(t), adaptDeserializer[T](fn))
	})
}

// RegisterInstanceCreator overrides default no-arg construction for T
// during deserialization.
func RegisterInstanceCreator[T any](fn func() (T, error)) Option {
	return optionFunc(func(c *config) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		c.handlers.InstanceCreators.RegisterExact(typeInfoOf(t), adaptInstanceCreator[T](fn))
	})
}

// RegisterInstanceCreatorForRawType is the raw-key counterpart of
// RegisterInstanceCreator.
func RegisterInstanceCreatorForRawType[T any](fn func() (T, error)) Option {
	return optionFunc(func(c *config) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		c.handlers.InstanceCreators.RegisterRaw(typeInfoOf(t), adaptInstanceCreator[T](fn))
	})
}

// Builder accumulates Options and produces an immutable Serializer.
type Builder struct {
	cfg *config
}

// NewBuilder starts a Builder with sensible defaults: no version ceiling,
// the default modifier mask, the compact formatter, DefaultNaming field
// naming, and null fields omitted.
func NewBuilder(opts ...Option) *Builder {
	cfg := &config{
		modifierMask: exclusion.DefaultModifierMask().Mask,
		formatter:    format.Compact{},
		naming:       DefaultNaming{},
	}
	// The overwrite sink reads cfg.onWarning when it fires, so an overwrite
	// among the options below reaches the WithWarningHandler sink whatever
	// the option order.
	cfg.handlers = handler.NewMap[SerializerFunc, DeserializerFunc, InstanceCreatorFunc](func(key string) {
		if cfg.onWarning != nil {
			cfg.onWarning(key)
		}
	})
	b := &Builder{cfg: cfg}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return b
}

// Build finalises configuration into an immutable Serializer, safe to share
// across concurrent calls.
func (b *Builder) Build() *Serializer {
	leaves := []exclusion.Strategy{exclusion.ModifierMask{Mask: b.cfg.modifierMask}, exclusion.InnerClassRule{}}
	if b.cfg.versionCeiling != nil {
		leaves = append(leaves, exclusion.VersionCeiling{Ceiling: *b.cfg.versionCeiling})
	}

	return &Serializer{
		exclusion:         exclusion.NewDisjunction(leaves...),
		formatter:         b.cfg.formatter,
		naming:            b.cfg.naming,
		includeNullFields: b.cfg.includeNullFields,
		handlers:          b.cfg.handlers,
	}
}
