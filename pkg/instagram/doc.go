// Package instagram implements the Graph API surface the publisher needs:
// two-phase media publishing (create a container, then publish it) and
// the content publishing limit used for quota-aware admission control.
//
// The client never retries a failed publish; a row that fails either phase
// is skipped for the current run and stays eligible for the next one.
package instagram
