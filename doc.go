// Package wildfire provides a native Go client for the Palo Alto Networks
// WildFire API, on the public cloud or a WildFire appliance.
//
// # Features
//
//   - One method per API call: reports, verdicts, samples, packet
//     captures, submissions and verdict change requests
//   - Responses decoded by content type into a single Result
//   - Typed errors for precise error handling
//   - Functional options for flexible configuration
//
// # Quick Start
//
//	client, err := wildfire.NewClient(
//	    wildfire.WithAPIKey(apiKey),
//	    wildfire.WithTimeout(60*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Submit a file
//	result, err := client.Submit(ctx, &wildfire.SubmitRequest{File: "sample.exe"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.XMLString())
//
//	// Download the packet capture
//	result, err = client.PCAP(ctx, &wildfire.PCAPRequest{Hash: sha256})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Attachment.Filename, result.Attachment.Content, 0o600)
//
// # Results
//
// Every call returns a *Result whose Type says which field is populated:
// XML for xml responses, Attachment for application/octet-stream and Body
// for json, html and plain text. An empty response body is a successful
// result with none of them set.
//
// # Error Handling
//
// The package uses typed errors that can be inspected with errors.As:
//
//	result, err := client.Verdict(ctx, &wildfire.VerdictRequest{Hash: h})
//	if err != nil {
//	    var svcErr *wildfire.ServiceError
//	    if errors.As(err, &svcErr) {
//	        // non-2xx response, svcErr.Result holds the decoded body
//	    }
//	    var terr *wildfire.TransportError
//	    if errors.As(err, &terr) && terr.Kind == wildfire.KindCertificate {
//	        // server certificate did not verify
//	    }
//	}
//
// # Logging
//
// The package logs through glog. Request lines are logged at -v=1,
// response metadata at -v=2 and body details at -v=3. API keys are never
// logged.
package wildfire
