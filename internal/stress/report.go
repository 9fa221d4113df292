/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package stress

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/valyala/bytebufferpool"

	"github.com/srediag/hwatomic/pkg/atomic"
)

// HostInfo is what the report records about the machine. Fields gopsutil
// could not read are left zero.
type HostInfo struct {
	LogicalCPUs int
	CPUModel    string
	TotalMemory uint64
}

func hostInfo() HostInfo {
	var h HostInfo
	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCPUs = n
	} else {
		logger.Warnf("read cpu count: %v", err)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	} else if err != nil {
		logger.Warnf("read cpu info: %v", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.TotalMemory = vm.Total
	} else {
		logger.Warnf("read memory: %v", err)
	}
	return h
}

// Report summarises one Run.
type Report struct {
	Platform atomic.PlatformInfo
	Host     HostInfo
	Results  []Result
	Elapsed  time.Duration
}

// Failed returns the results that ended on the wrong value.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// WriteTo renders the report as text.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	p := r.Platform
	fmt.Fprintf(buf, "arch=%s word=%d store-ordered=%v native64=%v lse=%v cx16=%v\n",
		p.Arch, p.WordSize, p.StoreOrdered, p.Native64, p.LSE, p.CX16)
	fmt.Fprintf(buf, "host cpus=%d model=%q memory=%dMiB\n",
		r.Host.LogicalCPUs, r.Host.CPUModel, r.Host.TotalMemory>>20)

	tw := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tWIDTH\tOPS\tRETRIES\tTIME\tFINAL\tEXPECTED\tSTATUS")
	for _, res := range r.Results {
		status := "ok"
		if !res.OK {
			status = "LOST UPDATE"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			res.Scenario, res.Width, res.Ops, res.Retries, res.Duration.Round(time.Microsecond),
			res.Final, res.Expected, status)
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}
	fmt.Fprintf(buf, "%d results, %d failed, %s\n", len(r.Results), len(r.Failed()), r.Elapsed.Round(time.Millisecond))
	return buf.WriteTo(w)
}
