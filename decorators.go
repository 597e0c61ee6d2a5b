package fluent

// ResolveHookContext carries one FormatMessage/FormatMessageAttribute call
// through a chain of ResolveHooks. A hook may rewrite Args before
// resolution runs, or inspect/replace Result and Errors afterward.
type ResolveHookContext struct {
	MessageID string
	Attr      string
	Locale    string
	Args      map[string]any
	Result    string
	Errors    []error
}

// ResolveHook observes or amends a message resolution call. BeforeFormat
// runs before the Bundle resolves anything; AfterFormat runs once the
// result string and any resolver errors are known.
type ResolveHook interface {
	BeforeFormat(ctx *ResolveHookContext)
	AfterFormat(ctx *ResolveHookContext)
}

// ResolveHookFuncs adapts two plain functions to the ResolveHook
// interface; either may be nil.
type ResolveHookFuncs struct {
	Before func(ctx *ResolveHookContext)
	After  func(ctx *ResolveHookContext)
}

func (h ResolveHookFuncs) BeforeFormat(ctx *ResolveHookContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h ResolveHookFuncs) AfterFormat(ctx *ResolveHookContext) {
	if h.After != nil {
		h.After(ctx)
	}
}

// HookedBundle wraps a Bundle with a chain of ResolveHooks, run in
// registration order before resolution and in the same order after.
type HookedBundle struct {
	bundle *Bundle
	hooks  []ResolveHook
}

// WrapBundleWithHooks returns a HookedBundle around bundle, filtering out
// any nil hooks. If bundle is nil or no hooks survive filtering, it still
// returns a usable (possibly no-op) HookedBundle.
func WrapBundleWithHooks(bundle *Bundle, hooks ...ResolveHook) *HookedBundle {
	filtered := make([]ResolveHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			filtered = append(filtered, hook)
		}
	}
	return &HookedBundle{bundle: bundle, hooks: filtered}
}

// FormatMessage runs the hook chain around Bundle.FormatMessage.
func (h *HookedBundle) FormatMessage(id string, args map[string]any) (string, []error) {
	if h == nil || h.bundle == nil {
		return "", []error{newResolverError(KindUnknownMessage, "no bundle configured")}
	}

	ctx := &ResolveHookContext{MessageID: id, Locale: firstLocale(h.bundle), Args: args}
	for _, hook := range h.hooks {
		hook.BeforeFormat(ctx)
	}

	result, errs := h.bundle.FormatMessage(ctx.MessageID, ctx.Args)
	ctx.Result, ctx.Errors = result, errs

	for _, hook := range h.hooks {
		hook.AfterFormat(ctx)
	}
	return ctx.Result, ctx.Errors
}

// FormatMessageAttribute runs the hook chain around
// Bundle.FormatMessageAttribute.
func (h *HookedBundle) FormatMessageAttribute(id, attr string, args map[string]any) (string, []error) {
	if h == nil || h.bundle == nil {
		return "", []error{newResolverError(KindUnknownMessage, "no bundle configured")}
	}

	ctx := &ResolveHookContext{MessageID: id, Attr: attr, Locale: firstLocale(h.bundle), Args: args}
	for _, hook := range h.hooks {
		hook.BeforeFormat(ctx)
	}

	result, errs := h.bundle.FormatMessageAttribute(ctx.MessageID, ctx.Attr, ctx.Args)
	ctx.Result, ctx.Errors = result, errs

	for _, hook := range h.hooks {
		hook.AfterFormat(ctx)
	}
	return ctx.Result, ctx.Errors
}
