package domain

// Slide is one image in the carousel.
type Slide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
}

// Direction records which way the carousel last moved.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

// DefaultSlides is the gallery shown by the carousel.
func DefaultSlides() []Slide {
	return []Slide{
		{Title: "Blooming petals", Subtitle: "A close-up of nature’s gentle colors", Image: "/images/img1.jpg"},
		{Title: "Aurora Borealis", Subtitle: "Dancing lights under a starry sky", Image: "/images/img2.jpg"},
		{Title: "Cloudy sky", Subtitle: "A calm horizon with drifting clouds", Image: "/images/img3.jpg"},
		{Title: "Lone wolf", Subtitle: "Wild eyes in the silence of the forest", Image: "/images/img4.jpg"},
		{Title: "Ancient tree", Subtitle: "Roots deep in history, branches touching the sky", Image: "/images/img5.jpg"},
		{Title: "Metro station", Subtitle: "Urban life in motion", Image: "/images/img6.jpg"},
		{Title: "Serene boating", Subtitle: "Drifting through calm waters", Image: "/images/img7.jpg"},
		{Title: "Green bridge", Subtitle: "Nature and architecture intertwined", Image: "/images/img8.jpg"},
		{Title: "Earth’s texture", Subtitle: "A close look at the ground beneath our feet", Image: "/images/img9.jpg"},
	}
}

// Carousel is a wrapping index over a fixed set of slides.
type Carousel struct {
	slides    []Slide
	index     int
	direction Direction
}

func NewCarousel(slides []Slide) Carousel {
	out := make([]Slide, len(slides))
	copy(out, slides)
	return Carousel{slides: out}
}

// SlideTo moves to index i, wrapping in both directions.
func (c Carousel) SlideTo(i int) Carousel {
	n := len(c.slides)
	if n == 0 {
		return c
	}
	next := ((i % n) + n) % n
	dir := DirectionForward
	if i < c.index {
		dir = DirectionBackward
	}
	return Carousel{slides: c.slides, index: next, direction: dir}
}

func (c Carousel) Next() Carousel { return c.SlideTo(c.index + 1) }
func (c Carousel) Prev() Carousel { return c.SlideTo(c.index - 1) }

func (c Carousel) Index() int           { return c.index }
func (c Carousel) Len() int             { return len(c.slides) }
func (c Carousel) Direction() Direction { return c.direction }

// Current returns the visible slide, false when there are no slides.
func (c Carousel) Current() (Slide, bool) {
	if len(c.slides) == 0 {
		return Slide{}, false
	}
	return c.slides[c.index], true
}

func (c Carousel) Slides() []Slide {
	out := make([]Slide, len(c.slides))
	copy(out, c.slides)
	return out
}
