// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package wavelet

import (
	"fmt"
	"io"

	"github.com/pbnjay/memory"
)

// maxBudgetFraction is the share of physical memory the reconstructor
// is willing to claim for scratch buffers before giving up and
// falling back to the unreconstructed image, mirroring nightlight's
// PrepareBatches (internal/batch.go), which budgets against
// memory.TotalMemory() before committing to an allocation plan.
const maxBudgetFraction = 0.5

// checkBudget reports whether a width x height reconstruction's
// scratch buffers plausibly fit in memory, logging a user-visible
// estimate either way when the physical memory total is known, again
// following PrepareBatches's style of logging the computed budget
// before acting on it. When the total is unknown it returns true
// without logging.
func checkBudget(width, height int, logWriter io.Writer) bool {
	need := bytesNeeded(width, height)
	total := memory.TotalMemory()
	if total == 0 {
		// Unknown total (container cgroup limits hidden, etc.) - proceed
		// optimistically rather than refuse reconstruction outright.
		return true
	}
	budget := int64(float64(total) * maxBudgetFraction)
	fmt.Fprintf(logWriter, "reconstruct: need %d MiB scratch, budget %d MiB of %d MiB physical\n",
		need/1024/1024, budget/1024/1024, total/1024/1024)
	if need > budget {
		fmt.Fprintf(logWriter, "reconstruct: scratch allocation would exceed memory budget, using original image\n")
		return false
	}
	return true
}
