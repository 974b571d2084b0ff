package kernels

// span is an inclusive index range waiting to be partitioned.
type span struct {
	left, right int
}

// QuickSort sorts data in place with Lomuto partitioning: the last element
// of a range is the pivot and elements <= pivot move left of it. Equal
// elements get no special treatment, so the sort is unstable.
//
// Pending ranges live on an explicit stack. The larger side is deferred and
// the smaller side handled first, which bounds the stack at O(log n) even for
// sorted or adversarial input.
func QuickSort(data []byte) {
	if len(data) < 2 {
		return
	}
	stack := make([]span, 0, 64)
	left, right := 0, len(data)-1
	for {
		for left < right {
			p := partition(data, left, right)
			if p-left < right-p {
				stack = append(stack, span{p + 1, right})
				right = p - 1
			} else {
				stack = append(stack, span{left, p - 1})
				left = p + 1
			}
		}
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		left, right = top.left, top.right
	}
}

// partition places data[right] at its final index and returns that index.
func partition(data []byte, left, right int) int {
	pivot := data[right]
	i := left - 1
	for j := left; j < right; j++ {
		if data[j] <= pivot {
			i++
			data[i], data[j] = data[j], data[i]
		}
	}
	i++
	data[i], data[right] = data[right], data[i]
	return i
}
