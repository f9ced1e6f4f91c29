package errs

import (
	"errors"
	"fmt"
	"log/slog"
)

// Wrap agrega contexto y preserva la cadena (errors.Is/As siguen funcionando).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

type loggable struct{ err error }

// Loggable hace que slog codifique el error como grupo {message, chain}.
// Uso: fields["err"] = errs.Loggable(err)
func Loggable(err error) slog.LogValuer { return loggable{err: err} }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}
	return slog.GroupValue(
		slog.String("message", l.err.Error()),
		slog.Any("chain", Chain(l.err)),
	)
}

// Chain devuelve la cadena de unwrap como strings (externo -> interno).
// Para errores de errors.Join sigue solo el primer nivel.
func Chain(err error) []string {
	if err == nil {
		return nil
	}

	out := make([]string, 0, 4)
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, e.Error())
	}
	return out
}
