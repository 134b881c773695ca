package props

import "math"

// Prop tracks one scalar: its latest value and running sums over the
// current averaging window.
type Prop struct {
	Val  float64
	sum  float64
	sum2 float64
}

func (p *Prop) Zero() {
	p.sum = 0
	p.sum2 = 0
}

func (p *Prop) Accum() {
	p.sum += p.Val
	p.sum2 += p.Val * p.Val
}

// Avg replaces the sums by the mean and standard deviation over n samples.
func (p *Prop) Avg(n int) {
	if n <= 0 {
		return
	}
	p.sum /= float64(n)
	p.sum2 = math.Sqrt(math.Max(p.sum2/float64(n)-p.sum*p.sum, 0))
}

// Mean and Std are meaningful after Avg.
func (p *Prop) Mean() float64 { return p.sum }
func (p *Prop) Std() float64  { return p.sum2 }
