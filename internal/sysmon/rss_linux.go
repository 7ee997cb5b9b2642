package sysmon

// ru_maxrss is reported in kilobytes on Linux.
const maxRSSUnit = 1024
