package regex_test

import (
	"fmt"

	"github.com/ajitpratap0/rxpool/pkg/regex"
)

func Example() {
	re := regex.MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)

	for c := range re.CapturesIter("released 2023-04, patched 2024-11") {
		year, _ := c.Name("year")
		month, _ := c.Name("month")
		fmt.Println(year, month)
	}
	fmt.Println(re.ReplaceAll("2023-04", "$month/$year"))

	// Output:
	// 2023 04
	// 2024 11
	// 04/2023
}

func ExampleBuilder() {
	re, err := regex.NewBuilder().
		Caseless(true).
		Extended(true).
		Build(`
			error   # severity
			\s+
			(\d+)   # code
		`)
	if err != nil {
		panic(err)
	}

	m, ok := re.Find("Got ERROR 42 at startup")
	fmt.Println(ok, m.String())

	// Output:
	// true ERROR 42
}

func ExampleEscape() {
	fmt.Println(regex.Escape("1.5*x+[y]"))

	// Output:
	// 1\.5\*x\+\[y\]
}
