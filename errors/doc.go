/*
Package errors implements the error taxonomy of the treasury application.

Every error returned by the application should wrap one of the root errors
declared in this package. A root error carries an ABCI code, so that a client
can tell apart an unauthorized caller from a missing transaction without
parsing messages.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf, or Wrap an existing one.

Stacktraces are attached on the first wrap. Use %+v to print them.
*/
package errors
