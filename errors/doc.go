/*
Package errors implements custom error interfaces for custody.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions that need a
domain specific failure kind register it with Register(code, description),
for example x/htlc declares ErrInvalidSecret and ErrNotExpired.

For reusing errors - use Errxxx.New and Errxxx.Newf, or wrap an existing
error with Wrap and Wrapf. The code of the root error is what the client
receives, so a wallet can distinguish "wrong secret" from "too early" from
"already settled" without parsing messages.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
*/
package errors
