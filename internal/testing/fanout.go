package testing

// Pair is a (sender, receiver) couple of user ids
type Pair struct {
	Sender, Receiver int64
}

// FanOut pairs the first provided userID with every other one
// e.g. [0, 1, 2, 3] -> [{0,1}, {0,2}, {0,3}]
func FanOut(userIDs []int64) []Pair {
	if len(userIDs) < 2 {
		return nil
	}
	pairs := make([]Pair, 0, len(userIDs)-1)
	for i := 1; i < len(userIDs); i++ {
		pairs = append(pairs, Pair{Sender: userIDs[0], Receiver: userIDs[i]})
	}

	return pairs
}
