// Package sensehat wraps the three SenseHAT peripherals the bridge
// exposes over MQTT: the combined environmental/IMU sensor board, the
// 8x8 LED matrix, and the five-way joystick.
//
// Hardware access sits behind the SensorDevice, Display and
// JoystickDevice interfaces; SimDevice implements all three in memory
// for development and tests. The wrappers themselves only shape data:
// Sensor produces flat readings with configured rounding and
// multipliers, LEDMatrix interprets command readings, Joystick turns
// stick events into readings. None of them know about MQTT.
package sensehat
