package options

// DefaultOptions enables every editing aid.
var DefaultOptions = SessionOptions{
	HighlightChanges:     true,
	EnableCorrectionMenu: true,
	EnableAutoConvert:    true,
}

type SessionOptions struct {
	HighlightChanges     bool // highlight converted characters
	EnableCorrectionMenu bool // offer alternatives when a word is clicked
	EnableAutoConvert    bool // deasciify the finished word when a separator is typed
}

type Options interface {
	Apply(options *SessionOptions)
}

type FuncConfig struct {
	ops func(options *SessionOptions)
}

func (w FuncConfig) Apply(conf *SessionOptions) {
	w.ops(conf)
}

func NewFuncOption(f func(options *SessionOptions)) *FuncConfig {
	return &FuncConfig{ops: f}
}

// Build applies opts on top of DefaultOptions.
func Build(opts ...Options) SessionOptions {
	conf := DefaultOptions
	for _, o := range opts {
		if o != nil {
			o.Apply(&conf)
		}
	}
	return conf
}

func WithHighlightChanges(enabled bool) Options {
	return NewFuncOption(func(options *SessionOptions) {
		options.HighlightChanges = enabled
	})
}

func WithCorrectionMenu(enabled bool) Options {
	return NewFuncOption(func(options *SessionOptions) {
		options.EnableCorrectionMenu = enabled
	})
}

func WithAutoConvert(enabled bool) Options {
	return NewFuncOption(func(options *SessionOptions) {
		options.EnableAutoConvert = enabled
	})
}

// WithSessionOptions replaces every field at once, e.g. from a reloaded
// config file.
func WithSessionOptions(so SessionOptions) Options {
	return NewFuncOption(func(options *SessionOptions) {
		*options = so
	})
}

// WithPlainEditing turns off everything that reacts to typing or clicks;
// only explicit conversions remain.
func WithPlainEditing() Options {
	return NewFuncOption(func(options *SessionOptions) {
		options.EnableAutoConvert = false
		options.EnableCorrectionMenu = false
	})
}
