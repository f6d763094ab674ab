package main

import "fmt"

type counter struct {
	hits   int
	misses int
}

func bump(a *int, b *int) {
	*a = *a + *b
}

func total(c *counter) int {
	return c.hits + c.misses
}

func main() {
	c := &counter{hits: 1, misses: 2}
	// disjoint fields, accepted
	bump(&c.hits, &c.misses)
	// conflicting accesses to c.hits, reported by the exclusivity check
	bump(&c.hits, &c.hits)
	fmt.Println(total(c))
}
