/*
Package storage provides the request builders of the storage API.

A Manager addresses the app storage, a BucketManager one bucket and a
FileManager one file of a bucket:

	st := storage.NewManager(requester)
	res := st.Bucket("images").File("cat.png").Download(ctx)
	if res.Errors != nil {
		log.Printf("download failed: %s", res.Errors.Message())
	}

Every operation validates its inputs first. Invalid input is returned as an
envelope carrying the validation code (missing_required_value, invalid_value
or empty_array) and no request is sent.
*/
package storage
