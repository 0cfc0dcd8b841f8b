/*
Package bench implements the bench command.

The local benchmarks encode and decode a stream of text messages with every encoding
(tight with the object cache, tight without it, loose) and report throughput, latency
percentiles and the average record size. The remote benchmark sends persistent messages
to a running server and measures the round trip until the server's response arrives.

	dwire bench --size 1024
	dwire bench --remote --endpoints localhost:61616 --threads 20 --csv results.csv
*/
package bench
