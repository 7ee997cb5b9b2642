package sysmon

// ru_maxrss is reported in bytes on macOS.
const maxRSSUnit = 1
