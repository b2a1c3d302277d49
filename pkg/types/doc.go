/*
Package types defines the result envelope, the domain records and the shared
interfaces of baasclient.

# Result Envelope

Every manager operation returns a Result; operations that only acknowledge
success carry a Message. Run implements the validate-then-send pattern they
share:

	res := bucket.GetInfo(ctx, false)
	if res.Errors != nil {
		log.Printf("%s: %s", res.Errors.Code(), res.Errors.Message())
		return
	}
	fmt.Println(res.Data.Name)

Data and Errors are never both set. Errors carries the HTTP status of the failed
request (0 when no response was received) and one or more items with an origin,
a code and a message. Input rejected by the validators produces a single item
with origin "client_error", status 400 and one of the validation codes; no
request is sent.

# Interfaces

Requester is implemented by the fetcher and consumed by the storage and
database managers, so managers can be exercised against any transport.
MetricsCollector is implemented by the prometheus collector.

# List Options

ListOptions carries limit, page, sort and count flags. Validate applies the
integer and presence checks to them before a list request is built.
*/
package types
