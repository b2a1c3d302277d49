/*
Package fetcher is the HTTP transport of baasclient.

A Fetcher sends JSON requests to <envURL>/_api/rest/v1 with the client key,
optional API key and session token headers and a fresh X-Request-Id. 2xx
bodies are decoded into the caller's value. Any other status is returned as
an *errors.ErrorObject built from the response's {"items": [...]} body; a
request that never got a response is returned as an *errors.Error with code
client_error.

The fetcher does not retry, cache or stream. Uploads are buffered multipart
bodies and downloads are read fully into memory.
*/
package fetcher
