// Package shaders holds the GLSL sources embedded in the viewer.
package shaders

// WaterVertexShader renders the animated river surface.
const WaterVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec2 aTexCoord;
layout(location = 2) in vec3 aNormal;
layout(location = 3) in vec4 aTangent;

uniform mat4 uViewProj;
uniform float uTime;

out vec2 vTexCoord;
out float vWave;

void main() {
    vec3 pos = aPosition;

    // Small traveling swell along the flow direction
    float wave = sin(aTexCoord.y * 6.2831 + uTime * 2.0) * 0.15;
    pos.z += wave;

    vTexCoord = aTexCoord;
    vWave = wave;
    gl_Position = uViewProj * vec4(pos, 1.0);
}
`

// WaterFragmentShader shades the river surface with a scrolling tint.
const WaterFragmentShader = `#version 410 core
in vec2 vTexCoord;
in float vWave;

uniform float uTime;

out vec4 fragColor;

void main() {
    vec3 deep = vec3(0.05, 0.25, 0.45);
    vec3 shallow = vec3(0.25, 0.55, 0.70);

    float band = 0.5 + 0.5 * sin((vTexCoord.y + uTime * 0.08) * 40.0);
    vec3 color = mix(deep, shallow, band * 0.3 + vWave + 0.35);

    fragColor = vec4(color, 0.85);
}
`

// BankVertexShader renders the static bank geometry.
const BankVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec2 aTexCoord;
layout(location = 2) in vec3 aNormal;
layout(location = 3) in vec4 aTangent;

uniform mat4 uViewProj;

out vec2 vTexCoord;
out vec3 vNormal;

void main() {
    vTexCoord = aTexCoord;
    vNormal = aNormal;
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// BankFragmentShader is a single directional lambert over a ground tint.
const BankFragmentShader = `#version 410 core
in vec2 vTexCoord;
in vec3 vNormal;

uniform vec3 uLightDir;

out vec4 fragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, normalize(-uLightDir)), 0.0);

    // Blend from sand near the waterline to grass on the outer bank
    vec3 sand = vec3(0.76, 0.70, 0.50);
    vec3 grass = vec3(0.30, 0.50, 0.25);
    vec3 base = mix(grass, sand, smoothstep(0.6, 1.0, vTexCoord.x));

    vec3 color = base * (0.35 + 0.65 * diffuse);
    fragColor = vec4(color, 1.0);
}
`
