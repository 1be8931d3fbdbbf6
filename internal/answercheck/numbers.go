package answercheck

import "strconv"

// checkNumbers scans a sanitized expression for numeric literals and
// verifies they match the required numbers exactly: same values, same
// multiplicity. Decimal literals are allowed only when the fraction is
// zero, so "7.0" counts as 7 but "7.5" is rejected.
func checkNumbers(cleaned string, required []int) error {
	found := make(map[int]int, len(required))

	for i := 0; i < len(cleaned); {
		if cleaned[i] < '0' || cleaned[i] > '9' {
			i++
			continue
		}
		j := i
		for j < len(cleaned) && cleaned[j] >= '0' && cleaned[j] <= '9' {
			j++
		}
		intPart := cleaned[i:j]
		if j < len(cleaned) && cleaned[j] == '.' {
			k := j + 1
			for k < len(cleaned) && cleaned[k] >= '0' && cleaned[k] <= '9' {
				k++
			}
			for _, d := range cleaned[j+1 : k] {
				if d != '0' {
					return ErrNonIntegerLiteral
				}
			}
			j = k
		}
		n, err := strconv.Atoi(intPart)
		if err != nil {
			return ErrMalformedExpression
		}
		found[n]++
		i = j
	}

	want := make(map[int]int, len(required))
	for _, n := range required {
		want[n]++
	}
	for n, cnt := range found {
		if cnt > want[n] {
			return ErrUnexpectedNumber
		}
	}
	for n, cnt := range want {
		if found[n] < cnt {
			return ErrMissingNumber
		}
	}
	return nil
}
