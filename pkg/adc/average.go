package adc

// IntegerAverage returns floor(sum(samples)/len(samples)) without summing the
// samples into a wider accumulator. Each sample contributes its quotient by n
// directly and its remainder to err, which carries into avg whenever it
// reaches n. err never exceeds 2n-2, which fits in uint16 for n up to
// MaxAverages. Only the first MaxAverages samples are averaged, the same cap
// an averaged conversion applies.
func IntegerAverage(samples []uint16) uint16 {
	if len(samples) > MaxAverages {
		samples = samples[:MaxAverages]
	}
	if len(samples) == 0 {
		return 0
	}
	n := uint16(len(samples))
	var avg, err uint16
	for _, s := range samples {
		err += s % n
		avg += s/n + err/n
		err %= n
	}
	return avg
}
